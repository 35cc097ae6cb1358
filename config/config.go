// Package config loads the service configuration from layered sources:
// built-in defaults, an optional YAML file, and environment variables, in
// increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// REELFINDER_CATALOG_API_KEY -> catalog.api_key.
const EnvPrefix = "REELFINDER_"

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "REELFINDER_CONFIG"

// DefaultConfigPaths lists where the config file is searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelfinder/config.yaml",
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// CatalogSettings configures the external movie catalog API.
type CatalogSettings struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// BackendSettings configures the aggregation backend that owns trending
// counters, recommendations and watchlist persistence.
type BackendSettings struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// SessionSettings tunes the session controller timings.
type SessionSettings struct {
	DebounceInterval time.Duration `koanf:"debounce_interval"`
	PulseDuration    time.Duration `koanf:"pulse_duration"`
}

// AuthSettings configures how bearer tokens are turned into user ids.
type AuthSettings struct {
	JWTSecret string `koanf:"jwt_secret"`
}

// LoggingSettings configures the rotating log file. An empty file path
// keeps logging on stderr.
type LoggingSettings struct {
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// Settings is the full service configuration.
type Settings struct {
	Server  ServerSettings  `koanf:"server"`
	Catalog CatalogSettings `koanf:"catalog"`
	Backend BackendSettings `koanf:"backend"`
	Session SessionSettings `koanf:"session"`
	Auth    AuthSettings    `koanf:"auth"`
	Logging LoggingSettings `koanf:"logging"`
}

func defaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8380,
		},
		Catalog: CatalogSettings{
			BaseURL:           "https://api.themoviedb.org/3",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 10,
		},
		Backend: BackendSettings{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: 10 * time.Second,
		},
		Session: SessionSettings{
			DebounceInterval: 500 * time.Millisecond,
			PulseDuration:    time.Second,
		},
		Logging: LoggingSettings{
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load builds Settings from defaults, an optional YAML file and environment
// variables.
func Load() (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultSettings(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envToPath), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	settings := &Settings{}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks the invariants the rest of the service assumes.
func (s *Settings) Validate() error {
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", s.Server.Port)
	}
	if s.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if s.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if s.Session.DebounceInterval <= 0 {
		return fmt.Errorf("session.debounce_interval must be positive")
	}
	if s.Session.PulseDuration <= 0 {
		return fmt.Errorf("session.pulse_duration must be positive")
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Server.Host, s.Server.Port)
}

// envToPath maps REELFINDER_CATALOG_API_KEY to catalog.api_key. Only the
// first underscore separates the section; the remainder keeps underscores.
func envToPath(key string) string {
	trimmed := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	parts := strings.SplitN(trimmed, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
