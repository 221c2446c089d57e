package querygateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeTempConfig(t, "gateway.yaml", `
server:
  port: "9090"
weather:
  api_key: test-key
  cache_ttl_seconds: 120
joke:
  base_url: http://localhost:9999/joke
audit:
  sink: sqlite
  dsn: /tmp/audit.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "test-key", cfg.Weather.APIKey)
	require.Equal(t, 120, cfg.Weather.CacheTTLSeconds)
	require.Equal(t, "http://localhost:9999/joke", cfg.Joke.BaseURL)
	require.Equal(t, SinkSQLite, cfg.Audit.Sink)
	require.NoError(t, ValidateConfig(*cfg))
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeTempConfig(t, "gateway.json", `{
		"weather": {"api_key": "k"},
		"audit": {"sink": "kafka", "brokers": ["localhost:9092"], "topic": "audit"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"localhost:9092"}, cfg.Audit.Brokers)
	require.NoError(t, ValidateConfig(*cfg))
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	path := writeTempConfig(t, "gateway.toml", `x = 1`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_SchemaRejectsUnknownKeys(t *testing.T) {
	path := writeTempConfig(t, "gateway.yaml", `
wether:
  api_key: oops
`)
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "schema")
}

func TestLoadConfig_SchemaRejectsBadSink(t *testing.T) {
	path := writeTempConfig(t, "gateway.json", `{"audit": {"sink": "carrier-pigeon"}}`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidateConfig_SinkRequirements(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty sink ok", Config{}, false},
		{"sqlite without dsn ok", Config{Audit: AuditConfig{Sink: SinkSQLite}}, false},
		{"postgres needs dsn", Config{Audit: AuditConfig{Sink: SinkPostgres}}, true},
		{"dynamodb needs table", Config{Audit: AuditConfig{Sink: SinkDynamoDB}}, true},
		{"dynamodb with table", Config{Audit: AuditConfig{Sink: SinkDynamoDB, Table: "audit"}}, false},
		{"kafka needs brokers and topic", Config{Audit: AuditConfig{Sink: SinkKafka, Topic: "audit"}}, true},
		{"unknown sink", Config{Audit: AuditConfig{Sink: "redis"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 60, cfg.Weather.CacheTTLSeconds)
	require.Equal(t, 60, cfg.Joke.CacheTTLSeconds)
	require.Equal(t, SinkNone, cfg.Audit.Sink)
}
