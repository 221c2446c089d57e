package querygateway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// configSchema constrains the shape of a config document before it is
// decoded into Config. Unknown top-level keys are rejected so typos fail
// loudly instead of silently configuring nothing.
const configSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"server": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"port": {"type": "string"}
			}
		},
		"weather": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"api_key": {"type": "string"},
				"base_url": {"type": "string"},
				"cache_ttl_seconds": {"type": "integer", "minimum": 1}
			}
		},
		"joke": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"base_url": {"type": "string"},
				"cache_ttl_seconds": {"type": "integer", "minimum": 1}
			}
		},
		"audit": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"sink": {"enum": ["none", "sqlite", "postgres", "dynamodb", "kafka"]},
				"dsn": {"type": "string"},
				"table": {"type": "string"},
				"region": {"type": "string"},
				"endpoint": {"type": "string"},
				"brokers": {"type": "array", "items": {"type": "string"}},
				"topic": {"type": "string"}
			}
		}
	}
}`

var compiledConfigSchema = jsonschema.MustCompileString("config.schema.json", configSchema)

// LoadConfig reads, schema-checks, and parses a config file from the
// given path. Supported formats: JSON (.json), YAML (.yaml, .yml).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var doc interface{}
	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
		if err := validateSchema(doc); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
		if err := validateSchema(doc); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	return &cfg, nil
}

// validateSchema checks doc against configSchema. The document is
// round-tripped through encoding/json first so YAML-decoded values carry
// the number and key types the schema validator expects.
func validateSchema(doc interface{}) error {
	normalized, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalizing config document: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(normalized, &v); err != nil {
		return fmt.Errorf("normalizing config document: %w", err)
	}
	if err := compiledConfigSchema.Validate(v); err != nil {
		return fmt.Errorf("config schema violation: %w", err)
	}
	return nil
}

// ValidateConfig validates a Config for correctness beyond what the
// schema expresses (cross-field sink requirements).
func ValidateConfig(cfg Config) error {
	sink := cfg.Audit.Sink
	if sink == "" {
		sink = SinkNone
	}

	switch sink {
	case SinkNone, SinkSQLite:
	case SinkPostgres:
		if strings.TrimSpace(cfg.Audit.DSN) == "" {
			return fmt.Errorf("audit sink %q requires a dsn", sink)
		}
	case SinkDynamoDB:
		if cfg.Audit.Table == "" {
			return fmt.Errorf("audit sink %q requires a table", sink)
		}
	case SinkKafka:
		if len(cfg.Audit.Brokers) == 0 || cfg.Audit.Topic == "" {
			return fmt.Errorf("audit sink %q requires brokers and a topic", sink)
		}
	default:
		return fmt.Errorf("unknown audit sink: %q", cfg.Audit.Sink)
	}

	if cfg.Weather.CacheTTLSeconds < 0 || cfg.Joke.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache TTLs must not be negative")
	}
	return nil
}
