package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/atharv3903/logiroute/internal/loader"
	"gopkg.in/yaml.v3"
)

type GraphConfig struct {
	Source      string `yaml:"source"`
	File        string `yaml:"file"`
	MySQLDSN    string `yaml:"mysql_dsn"`
	SnapshotDir string `yaml:"snapshot_dir"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	AppName        string          `yaml:"app_name"`
	AppVersion     string          `yaml:"app_version"`
	Host           string          `yaml:"host"`
	Port           int             `yaml:"port"`
	Graph          GraphConfig     `yaml:"graph"`
	RouteCacheSize int             `yaml:"route_cache_size"`
	QueryTimeout   time.Duration   `yaml:"query_timeout"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	CORSOrigins    []string        `yaml:"cors_origins"`
	Log            LogConfig       `yaml:"log"`
}

func Default() ServerConfig {
	return ServerConfig{
		AppName:        "Smart Logistics Routing Engine",
		AppVersion:     "1.0.0",
		Host:           "0.0.0.0",
		Port:           8000,
		Graph:          GraphConfig{Source: loader.SourceEmbedded},
		RouteCacheSize: 2048,
		QueryTimeout:   2 * time.Second,
		RateLimit:      RateLimitConfig{Burst: 20},
		CORSOrigins:    []string{"*"},
		Log:            LogConfig{Level: "info", Format: "json"},
	}
}

// Load starts from Default, overlays the YAML file at path (if any), then the
// environment. CLI flags are applied by the caller on top.
func Load(path string) (ServerConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	// the loader reads an unset source as embedded
	if cfg.Graph.Source == "" {
		cfg.Graph.Source = loader.SourceEmbedded
	}
	return cfg, nil
}

func (c *ServerConfig) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("APP_NAME", &c.AppName)
	str("APP_VERSION", &c.AppVersion)
	str("HOST", &c.Host)
	str("GRAPH_SOURCE", &c.Graph.Source)
	str("GRAPH_FILE", &c.Graph.File)
	str("DB_DSN", &c.Graph.MySQLDSN)
	str("SNAPSHOT_DIR", &c.Graph.SnapshotDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = splitList(v)
	}

	var errs []error
	if v, ok := lookup("PORT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PORT: %w", err))
		}
		c.Port = n
	}
	if v, ok := lookup("ROUTE_CACHE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("ROUTE_CACHE_SIZE: %w", err))
		}
		c.RouteCacheSize = n
	}
	if v, ok := lookup("QUERY_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("QUERY_TIMEOUT: %w", err))
		}
		c.QueryTimeout = d
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: %w", err))
		}
		c.RateLimit.RPS = f
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST: %w", err))
		}
		c.RateLimit.Burst = n
	}
	return errors.Join(errs...)
}

func (c ServerConfig) Validate() error {
	var errs []error

	if c.Graph.Source != "" && !slices.Contains(loader.Sources, c.Graph.Source) {
		errs = append(errs, fmt.Errorf("graph source %q must be one of %s", c.Graph.Source, strings.Join(loader.Sources, ", ")))
	}
	switch c.Graph.Source {
	case loader.SourceFile:
		if c.Graph.File == "" {
			errs = append(errs, errors.New("graph source file needs graph.file"))
		}
	case loader.SourceMySQL:
		if c.Graph.MySQLDSN == "" {
			errs = append(errs, errors.New("graph source mysql needs graph.mysql_dsn"))
		}
	case loader.SourceBadger:
		if c.Graph.SnapshotDir == "" {
			errs = append(errs, errors.New("graph source badger needs graph.snapshot_dir"))
		}
	}

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.RouteCacheSize < 0 {
		errs = append(errs, errors.New("route_cache_size must be >= 0"))
	}
	if c.QueryTimeout < 0 {
		errs = append(errs, errors.New("query_timeout must be >= 0"))
	}
	if c.RateLimit.RPS < 0 || (c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1) {
		errs = append(errs, errors.New("rate_limit needs rps >= 0 and burst >= 1"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("log format %q must be json or text", c.Log.Format))
	}
	return errors.Join(errs...)
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c ServerConfig) GraphSource() loader.Source {
	return loader.Source{
		Kind:        c.Graph.Source,
		File:        c.Graph.File,
		MySQLDSN:    c.Graph.MySQLDSN,
		SnapshotDir: c.Graph.SnapshotDir,
	}
}

// NewLogger builds the process logger described by the log section.
func (c ServerConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
