package querygateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ferro-labs/query-gateway/providers"
)

type stubWeather struct {
	mu       sync.Mutex
	calls    int
	lastCity string
	report   *providers.WeatherReport
	err      error
}

func (s *stubWeather) Name() string { return "stub-weather" }

func (s *stubWeather) CurrentWeather(_ context.Context, city string) (*providers.WeatherReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastCity = city
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

type stubJoke struct {
	mu    sync.Mutex
	calls int
	joke  *providers.Joke
	err   error
}

func (s *stubJoke) Name() string { return "stub-joke" }

func (s *stubJoke) RandomJoke(context.Context) (*providers.Joke, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.joke, nil
}

func testReport() *providers.WeatherReport {
	return &providers.WeatherReport{CityName: "Tokyo", Description: "light rain", TemperatureCelsius: 22.1}
}

func testJoke() *providers.Joke {
	return &providers.Joke{Setup: "setup", Punchline: "punchline"}
}

func TestProcess_WeatherOnly(t *testing.T) {
	weather := &stubWeather{report: testReport()}
	joke := &stubJoke{joke: testJoke()}
	g := NewWithProviders(weather, joke)

	result := g.Process(context.Background(), "weather in Tokyo")

	if result.Weather == nil || result.Weather.CityName != "Tokyo" {
		t.Errorf("weather = %+v", result.Weather)
	}
	if result.WeatherError != "" || result.Joke != nil || result.JokeError != "" || result.GeneralResponse != "" {
		t.Errorf("unexpected extra keys: %+v", result)
	}
	if weather.lastCity != "tokyo" {
		t.Errorf("city passed to fetcher = %q, want lowercased capture", weather.lastCity)
	}
	if joke.calls != 0 {
		t.Errorf("joke fetcher called %d times for a weather-only query", joke.calls)
	}
}

func TestProcess_JokeOnly(t *testing.T) {
	weather := &stubWeather{report: testReport()}
	joke := &stubJoke{joke: testJoke()}
	g := NewWithProviders(weather, joke)

	result := g.Process(context.Background(), "tell me a joke")

	if result.Joke == nil || result.Joke.Setup != "setup" {
		t.Errorf("joke = %+v", result.Joke)
	}
	if result.Weather != nil || result.WeatherError != "" || result.GeneralResponse != "" {
		t.Errorf("unexpected extra keys: %+v", result)
	}
	if weather.calls != 0 {
		t.Errorf("weather fetcher called %d times for a joke-only query", weather.calls)
	}
}

func TestProcess_BothDomains(t *testing.T) {
	g := NewWithProviders(&stubWeather{report: testReport()}, &stubJoke{joke: testJoke()})

	result := g.Process(context.Background(), "joke about weather in Tokyo")

	if result.Weather == nil || result.Joke == nil {
		t.Errorf("expected both domains populated: %+v", result)
	}
}

func TestProcess_PartialFailure(t *testing.T) {
	// A weather upstream failure must not suppress the joke, and the
	// fixed error message must replace the weather key.
	g := NewWithProviders(
		&stubWeather{err: errors.New("upstream exploded")},
		&stubJoke{joke: testJoke()},
	)

	result := g.Process(context.Background(), "joke about weather in Tokyo")

	if result.Weather != nil {
		t.Errorf("weather should be absent on failure, got %+v", result.Weather)
	}
	if result.WeatherError != "Failed to fetch weather data due to an API error." {
		t.Errorf("weather_error = %q", result.WeatherError)
	}
	if result.Joke == nil {
		t.Error("joke should be populated despite weather failure")
	}
}

func TestProcess_BothFail(t *testing.T) {
	g := NewWithProviders(
		&stubWeather{err: errors.New("weather down")},
		&stubJoke{err: errors.New("joke down")},
	)

	result := g.Process(context.Background(), "funny weather in Oslo")

	if result.WeatherError == "" || result.JokeError == "" {
		t.Errorf("expected both error keys: %+v", result)
	}
	if result.JokeError != "Failed to fetch joke due to an API error." {
		t.Errorf("joke_error = %q", result.JokeError)
	}
	if result.GeneralResponse != "" {
		t.Errorf("general_response must stay empty when a domain matched: %+v", result)
	}
}

func TestProcess_NoMatch(t *testing.T) {
	weather := &stubWeather{report: testReport()}
	joke := &stubJoke{joke: testJoke()}
	g := NewWithProviders(weather, joke)

	result := g.Process(context.Background(), "what time is it")

	if result.GeneralResponse != "I can only process weather and joke requests." {
		t.Errorf("general_response = %q", result.GeneralResponse)
	}
	if result.Weather != nil || result.WeatherError != "" || result.Joke != nil || result.JokeError != "" {
		t.Errorf("unexpected keys: %+v", result)
	}
	if weather.calls != 0 || joke.calls != 0 {
		t.Error("no fetcher should run for an unmatched query")
	}
}

func TestProcess_WeatherKeywordWithoutCity(t *testing.T) {
	// A weather keyword with an empty city phrase counts as no weather
	// match; the fetcher must not be invoked with an empty city.
	weather := &stubWeather{report: testReport()}
	g := NewWithProviders(weather, &stubJoke{joke: testJoke()})

	result := g.Process(context.Background(), "weather ?")

	if weather.calls != 0 {
		t.Errorf("weather fetcher called %d times for an empty city", weather.calls)
	}
	if result.GeneralResponse == "" {
		t.Errorf("expected general response, got %+v", result)
	}
}

func TestAddHook_InvokedAfterProcess(t *testing.T) {
	g := NewWithProviders(&stubWeather{report: testReport()}, &stubJoke{joke: testJoke()})

	events := make(chan map[string]interface{}, 1)
	g.AddHook(func(_ context.Context, subject string, data map[string]interface{}) {
		if subject == SubjectQueryCompleted {
			events <- data
		}
	})

	g.Process(context.Background(), "tell me a joke")

	select {
	case data := <-events:
		if data["query"] != "tell me a joke" {
			t.Errorf("hook query = %v", data["query"])
		}
		if _, ok := data["result"].(Result); !ok {
			t.Errorf("hook result has type %T", data["result"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hook was not invoked")
	}
}

func TestNew_RequiresWeatherAPIKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without weather api key")
	}
}
