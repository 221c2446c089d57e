package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultWeatherURL is the OpenWeather current-weather endpoint.
const DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements WeatherProvider against the OpenWeather API.
type OpenWeatherProvider struct {
	Base
	httpClient *http.Client
}

// NewOpenWeather creates a new OpenWeather provider. baseURL defaults to
// the public OpenWeather endpoint when empty.
func NewOpenWeather(apiKey, baseURL string) (*OpenWeatherProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openweather: api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultWeatherURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &OpenWeatherProvider{
		Base:       Base{name: "openweather", apiKey: apiKey, baseURL: baseURL},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type openWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

type openWeatherError struct {
	Cod     json.Number `json:"cod"`
	Message string      `json:"message"`
}

// CurrentWeather fetches metric-unit weather for city and normalizes the
// upstream JSON into a WeatherReport.
func (p *OpenWeatherProvider) CurrentWeather(ctx context.Context, city string) (*WeatherReport, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", p.apiKey)
	params.Set("units", "metric")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var errResp openWeatherError
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("openweather API error (%d): %s", httpResp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("openweather API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var weatherResp openWeatherResponse
	if err := json.Unmarshal(respBody, &weatherResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(weatherResp.Weather) == 0 {
		return nil, fmt.Errorf("openweather response missing weather conditions")
	}

	return &WeatherReport{
		CityName:           weatherResp.Name,
		Description:        weatherResp.Weather[0].Description,
		TemperatureCelsius: weatherResp.Main.Temp,
	}, nil
}
