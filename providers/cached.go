package providers

import (
	"context"
	"time"

	"github.com/ferro-labs/query-gateway/internal/cache"
	"github.com/ferro-labs/query-gateway/internal/metrics"
)

// jokeCacheKey is the single slot used by the joke cache; a random joke
// has no parameters to key on.
const jokeCacheKey = "joke"

// CachedWeather wraps a WeatherProvider with a per-city TTL cache.
// Failures are never cached, so a transient upstream error does not
// poison the cache for the TTL window.
type CachedWeather struct {
	upstream WeatherProvider
	cache    *cache.Memory[WeatherReport]
	ttl      time.Duration
}

// NewCachedWeather wraps upstream with the given cache and TTL. The cache
// key is the city string exactly as passed by the caller.
func NewCachedWeather(upstream WeatherProvider, c *cache.Memory[WeatherReport], ttl time.Duration) *CachedWeather {
	return &CachedWeather{upstream: upstream, cache: c, ttl: ttl}
}

// Name returns the wrapped provider's name.
func (w *CachedWeather) Name() string { return w.upstream.Name() }

// CurrentWeather returns the cached report for city when fresh, otherwise
// fetches from upstream and caches the result for the configured TTL.
func (w *CachedWeather) CurrentWeather(ctx context.Context, city string) (*WeatherReport, error) {
	if report, ok := w.cache.Get(city); ok {
		metrics.CacheEvents.WithLabelValues("weather", "hit").Inc()
		return &report, nil
	}
	metrics.CacheEvents.WithLabelValues("weather", "miss").Inc()

	start := time.Now()
	report, err := w.upstream.CurrentWeather(ctx, city)
	metrics.UpstreamDuration.WithLabelValues(w.upstream.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(w.upstream.Name(), "error").Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues(w.upstream.Name(), "success").Inc()
	w.cache.Set(city, *report, w.ttl)
	return report, nil
}

// CachedJoke wraps a JokeProvider with a single-slot TTL cache.
type CachedJoke struct {
	upstream JokeProvider
	cache    *cache.Memory[Joke]
	ttl      time.Duration
}

// NewCachedJoke wraps upstream with the given cache and TTL.
func NewCachedJoke(upstream JokeProvider, c *cache.Memory[Joke], ttl time.Duration) *CachedJoke {
	return &CachedJoke{upstream: upstream, cache: c, ttl: ttl}
}

// Name returns the wrapped provider's name.
func (j *CachedJoke) Name() string { return j.upstream.Name() }

// RandomJoke returns the cached joke when fresh, otherwise fetches from
// upstream and caches the result for the configured TTL.
func (j *CachedJoke) RandomJoke(ctx context.Context) (*Joke, error) {
	if joke, ok := j.cache.Get(jokeCacheKey); ok {
		metrics.CacheEvents.WithLabelValues("joke", "hit").Inc()
		return &joke, nil
	}
	metrics.CacheEvents.WithLabelValues("joke", "miss").Inc()

	start := time.Now()
	joke, err := j.upstream.RandomJoke(ctx)
	metrics.UpstreamDuration.WithLabelValues(j.upstream.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(j.upstream.Name(), "error").Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues(j.upstream.Name(), "success").Inc()
	j.cache.Set(jokeCacheKey, *joke, j.ttl)
	return joke, nil
}
