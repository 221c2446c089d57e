package querygateway

import "time"

// Config holds the configuration for the query gateway.
type Config struct {
	// Server configures the HTTP listener in cmd/queryd.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`
	// Weather configures the weather upstream and its cache.
	Weather WeatherConfig `json:"weather" yaml:"weather"`
	// Joke configures the joke upstream and its cache.
	Joke JokeConfig `json:"joke,omitempty" yaml:"joke,omitempty"`
	// Audit selects and configures the audit sink.
	Audit AuditConfig `json:"audit,omitempty" yaml:"audit,omitempty"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	Port string `json:"port,omitempty" yaml:"port,omitempty"`
}

// WeatherConfig defines the weather upstream.
type WeatherConfig struct {
	// APIKey authenticates against the OpenWeather API. Usually supplied
	// via the OPENWEATHER_API_KEY environment variable instead.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// BaseURL overrides the upstream endpoint (tests, proxies).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// CacheTTLSeconds is how long a fetched report stays fresh. Default 60.
	CacheTTLSeconds int `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
}

// JokeConfig defines the joke upstream.
type JokeConfig struct {
	BaseURL         string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds,omitempty" yaml:"cache_ttl_seconds,omitempty"`
}

// Audit sink kinds accepted in AuditConfig.Sink.
const (
	SinkNone     = "none"
	SinkSQLite   = "sqlite"
	SinkPostgres = "postgres"
	SinkDynamoDB = "dynamodb"
	SinkKafka    = "kafka"
)

// AuditConfig selects the audit sink. The zero value means no auditing.
type AuditConfig struct {
	// Sink is one of none, sqlite, postgres, dynamodb, kafka.
	Sink string `json:"sink,omitempty" yaml:"sink,omitempty"`
	// DSN is the sqlite file path or postgres connection string.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// Table is the DynamoDB table name.
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
	// Region is the AWS region for the DynamoDB sink.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	// Endpoint overrides the DynamoDB endpoint (DynamoDB Local).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Brokers seed the Kafka producer.
	Brokers []string `json:"brokers,omitempty" yaml:"brokers,omitempty"`
	// Topic is the Kafka audit topic.
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`
}

// Defaults applied by applyDefaults.
const (
	defaultCacheTTLSeconds = 60
	defaultPort            = "8080"
)

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = defaultPort
	}
	if c.Weather.CacheTTLSeconds <= 0 {
		c.Weather.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	if c.Joke.CacheTTLSeconds <= 0 {
		c.Joke.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	if c.Audit.Sink == "" {
		c.Audit.Sink = SinkNone
	}
}

// WeatherTTL returns the weather cache TTL as a duration.
func (c *Config) WeatherTTL() time.Duration {
	return time.Duration(c.Weather.CacheTTLSeconds) * time.Second
}

// JokeTTL returns the joke cache TTL as a duration.
func (c *Config) JokeTTL() time.Duration {
	return time.Duration(c.Joke.CacheTTLSeconds) * time.Second
}
