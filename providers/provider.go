// Package providers defines the upstream fetcher interfaces and shared
// data types, plus the HTTP client implementations for the weather and
// joke upstreams.
//
// Each implementation wraps one third-party API call and normalizes the
// upstream JSON into a fixed-shape result. Callers that want caching wrap
// a provider in CachedWeather or CachedJoke.
package providers

import "context"

// WeatherProvider fetches current weather for a city.
type WeatherProvider interface {
	Name() string
	CurrentWeather(ctx context.Context, city string) (*WeatherReport, error)
}

// JokeProvider fetches a random joke.
type JokeProvider interface {
	Name() string
	RandomJoke(ctx context.Context) (*Joke, error)
}

// WeatherReport is the normalized weather result. Immutable once produced.
type WeatherReport struct {
	CityName           string  `json:"city_name"`
	Description        string  `json:"description"`
	TemperatureCelsius float64 `json:"temperature_celsius"`
}

// Joke is the normalized joke result.
type Joke struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}
