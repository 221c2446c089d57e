// Package querygateway classifies free-text user queries as weather
// and/or joke requests, fetches the matching data from upstream APIs
// through short-lived in-memory caches, and merges the outcomes into one
// JSON result.
//
// The Gateway type is the main entry point: create one with New (or
// NewWithProviders to supply custom fetchers), then call Handle with a
// platform invocation payload, or Process with already-extracted query
// text. Audit sinks and event hooks observe processed queries without
// being able to affect the response.
package querygateway

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ferro-labs/query-gateway/internal/auditlog"
	"github.com/ferro-labs/query-gateway/internal/cache"
	"github.com/ferro-labs/query-gateway/internal/logging"
	"github.com/ferro-labs/query-gateway/internal/metrics"
	"github.com/ferro-labs/query-gateway/internal/query"
	"github.com/ferro-labs/query-gateway/providers"
)

// User-facing messages. Upstream failure detail is logged, never exposed.
const (
	weatherErrorMessage    = "Failed to fetch weather data due to an API error."
	jokeErrorMessage       = "Failed to fetch joke due to an API error."
	generalResponseMessage = "I can only process weather and joke requests."
)

// Result is the merged outcome of one processed query. When weather was
// requested exactly one of Weather/WeatherError is set; same for joke.
// GeneralResponse is set only when no domain matched.
type Result struct {
	Weather         *providers.WeatherReport `json:"weather,omitempty"`
	WeatherError    string                   `json:"weather_error,omitempty"`
	Joke            *providers.Joke          `json:"joke,omitempty"`
	JokeError       string                   `json:"joke_error,omitempty"`
	GeneralResponse string                   `json:"general_response,omitempty"`
}

// EventHookFunc is called asynchronously after each processed query.
type EventHookFunc func(ctx context.Context, subject string, data map[string]interface{})

// Event subject constants used when invoking gateway hooks.
const SubjectQueryCompleted = "gateway.query.completed"

// Gateway is the main entry point for processing queries.
type Gateway struct {
	mu      sync.RWMutex
	weather providers.WeatherProvider
	joke    providers.JokeProvider
	audit   auditlog.Writer
	hooks   []EventHookFunc
}

// New creates a Gateway from cfg: cached OpenWeather and Official Joke
// fetchers, each owning its own TTL cache. The audit writer starts as a
// no-op; wire one with SetAuditWriter (see NewAuditWriter).
func New(cfg Config) (*Gateway, error) {
	cfg.applyDefaults()

	weatherUpstream, err := providers.NewOpenWeather(cfg.Weather.APIKey, cfg.Weather.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("weather provider: %w", err)
	}
	jokeUpstream, err := providers.NewOfficialJoke(cfg.Joke.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("joke provider: %w", err)
	}

	return NewWithProviders(
		providers.NewCachedWeather(weatherUpstream, cache.NewMemory[providers.WeatherReport](), cfg.WeatherTTL()),
		providers.NewCachedJoke(jokeUpstream, cache.NewMemory[providers.Joke](), cfg.JokeTTL()),
	), nil
}

// NewWithProviders creates a Gateway around the given fetchers. Callers
// that want caching pass providers already wrapped in CachedWeather /
// CachedJoke; New does this from config.
func NewWithProviders(weather providers.WeatherProvider, joke providers.JokeProvider) *Gateway {
	return &Gateway{
		weather: weather,
		joke:    joke,
		audit:   auditlog.NoopWriter{},
	}
}

// SetAuditWriter replaces the audit sink. Passing nil disables auditing.
func (g *Gateway) SetAuditWriter(w auditlog.Writer) {
	if w == nil {
		w = auditlog.NoopWriter{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.audit = w
}

// AddHook registers an EventHookFunc that is called asynchronously after
// each processed query. Multiple hooks may be registered; all are invoked
// for every event.
func (g *Gateway) AddHook(fn EventHookFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = append(g.hooks, fn)
}

// Process classifies rawQuery, fetches the implicated domains, and merges
// the outcomes. The two fetches run concurrently; each failure is
// captured as its domain's fixed error message and never suppresses the
// other domain. A query matching neither domain yields the general
// response.
func (g *Gateway) Process(ctx context.Context, rawQuery string) Result {
	log := logging.FromContext(ctx)
	routed := query.Classify(rawQuery)

	var result Result
	fetches, fctx := errgroup.WithContext(ctx)

	if routed.WantsWeather {
		fetches.Go(func() error {
			report, err := g.weather.CurrentWeather(fctx, routed.City)
			if err != nil {
				log.Error("weather fetch failed", "city", routed.City, "error", err)
				result.WeatherError = weatherErrorMessage
				return nil
			}
			result.Weather = report
			return nil
		})
	}
	if routed.WantsJoke {
		fetches.Go(func() error {
			joke, err := g.joke.RandomJoke(fctx)
			if err != nil {
				log.Error("joke fetch failed", "error", err)
				result.JokeError = jokeErrorMessage
				return nil
			}
			result.Joke = joke
			return nil
		})
	}
	_ = fetches.Wait()

	if result == (Result{}) {
		result.GeneralResponse = generalResponseMessage
	}

	metrics.QueriesTotal.WithLabelValues(intentLabel(routed), statusLabel(result)).Inc()
	g.dispatchHooks(ctx, rawQuery, result)
	return result
}

func intentLabel(routed query.Routed) string {
	switch {
	case routed.WantsWeather && routed.WantsJoke:
		return "both"
	case routed.WantsWeather:
		return "weather"
	case routed.WantsJoke:
		return "joke"
	default:
		return "none"
	}
}

func statusLabel(result Result) string {
	failed := result.WeatherError != "" || result.JokeError != ""
	succeeded := result.Weather != nil || result.Joke != nil
	switch {
	case failed && succeeded:
		return "partial_error"
	case failed:
		return "error"
	default:
		return "ok"
	}
}

// dispatchHooks invokes registered hooks in their own goroutines so a
// slow hook cannot delay the response.
func (g *Gateway) dispatchHooks(ctx context.Context, rawQuery string, result Result) {
	g.mu.RLock()
	hooks := make([]EventHookFunc, len(g.hooks))
	copy(hooks, g.hooks)
	g.mu.RUnlock()

	if len(hooks) == 0 {
		return
	}
	data := map[string]interface{}{
		"query":  rawQuery,
		"result": result,
	}
	hookCtx := logging.WithTraceID(context.Background(), logging.TraceIDFromContext(ctx))
	for _, hook := range hooks {
		go hook(hookCtx, SubjectQueryCompleted, data)
	}
}
