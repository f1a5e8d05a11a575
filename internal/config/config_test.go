package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "embedded", cfg.GraphSource().Kind)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logiroute.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: Test Router
port: 9000
graph:
  source: file
  file: /srv/net.yaml
route_cache_size: 16
query_timeout: 500ms
rate_limit:
  rps: 5
  burst: 2
cors_origins: ["https://ops.example"]
log:
  level: debug
  format: text
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Test Router", cfg.AppName)
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "file", cfg.Graph.Source)
	assert.Equal(t, "/srv/net.yaml", cfg.Graph.File)
	assert.Equal(t, 16, cfg.RouteCacheSize)
	assert.Equal(t, 500*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, RateLimitConfig{RPS: 5, Burst: 2}, cfg.RateLimit)
	assert.Equal(t, []string{"https://ops.example"}, cfg.CORSOrigins)
	assert.Equal(t, LogConfig{Level: "debug", Format: "text"}, cfg.Log)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"APP_NAME":         "Env Router",
		"PORT":             "8081",
		"GRAPH_SOURCE":     "mysql",
		"DB_DSN":           "u:p@tcp(db:3306)/routes",
		"ROUTE_CACHE_SIZE": "0",
		"QUERY_TIMEOUT":    "3s",
		"RATE_LIMIT_RPS":   "10",
		"CORS_ORIGINS":     "https://a.example, https://b.example",
		"LOG_LEVEL":        "warn",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Env Router", cfg.AppName)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "mysql", cfg.Graph.Source)
	assert.Equal(t, "u:p@tcp(db:3306)/routes", cfg.GraphSource().MySQLDSN)
	assert.Equal(t, 0, cfg.RouteCacheSize)
	assert.Equal(t, 3*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvBadNumbers(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == "PORT" {
			return "eighty", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, "PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(c *ServerConfig)
	}{
		{"unknown source", func(c *ServerConfig) { c.Graph.Source = "csv" }},
		{"file without path", func(c *ServerConfig) { c.Graph.Source = "file" }},
		{"mysql without dsn", func(c *ServerConfig) { c.Graph.Source = "mysql" }},
		{"badger without dir", func(c *ServerConfig) { c.Graph.Source = "badger" }},
		{"port zero", func(c *ServerConfig) { c.Port = 0 }},
		{"port too big", func(c *ServerConfig) { c.Port = 70000 }},
		{"negative cache", func(c *ServerConfig) { c.RouteCacheSize = -1 }},
		{"negative timeout", func(c *ServerConfig) { c.QueryTimeout = -time.Second }},
		{"rate without burst", func(c *ServerConfig) { c.RateLimit = RateLimitConfig{RPS: 1} }},
		{"bad level", func(c *ServerConfig) { c.Log.Level = "loud" }},
		{"bad format", func(c *ServerConfig) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log = LogConfig{Level: "warn", Format: "json"}
	log := cfg.NewLogger(&buf)

	log.Info("hidden")
	log.Warn("shown", "start", "HubA")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"start":"HubA"`)

	buf.Reset()
	cfg.Log.Format = "text"
	cfg.NewLogger(&buf).Warn("plain", "end", "HubB")
	assert.Contains(t, buf.String(), "end=HubB")
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "logiroute.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestEmptyGraphSourceMeansEmbedded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logiroute.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph:\n  source: \"\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "embedded", cfg.Graph.Source)
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Graph.Source = ""
	assert.NoError(t, cfg.Validate())
}
