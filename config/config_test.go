package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	settings, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if settings.Server.Port != 8380 {
		t.Fatalf("expected default port 8380, got %d", settings.Server.Port)
	}
	if settings.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Fatalf("unexpected catalog base url %q", settings.Catalog.BaseURL)
	}
	if settings.Session.DebounceInterval != 500*time.Millisecond {
		t.Fatalf("unexpected debounce interval %v", settings.Session.DebounceInterval)
	}
	if settings.Session.PulseDuration != time.Second {
		t.Fatalf("unexpected pulse duration %v", settings.Session.PulseDuration)
	}
	if settings.Addr() != "0.0.0.0:8380" {
		t.Fatalf("unexpected addr %q", settings.Addr())
	}
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("REELFINDER_SERVER_PORT", "9999")
	t.Setenv("REELFINDER_CATALOG_API_KEY", "secret-key")
	t.Setenv("REELFINDER_SESSION_DEBOUNCE_INTERVAL", "250ms")

	settings, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if settings.Server.Port != 9999 {
		t.Fatalf("expected port override, got %d", settings.Server.Port)
	}
	if settings.Catalog.APIKey != "secret-key" {
		t.Fatalf("expected api key override, got %q", settings.Catalog.APIKey)
	}
	if settings.Session.DebounceInterval != 250*time.Millisecond {
		t.Fatalf("expected debounce override, got %v", settings.Session.DebounceInterval)
	}
}

func TestConfigFileLayersUnderEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("server:\n  port: 7000\nbackend:\n  base_url: http://backend:5000\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("REELFINDER_SERVER_PORT", "7001")

	settings, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if settings.Backend.BaseURL != "http://backend:5000" {
		t.Fatalf("expected file value, got %q", settings.Backend.BaseURL)
	}
	if settings.Server.Port != 7001 {
		t.Fatalf("expected env to win over file, got %d", settings.Server.Port)
	}
	// Untouched sections keep their defaults.
	if settings.Catalog.BaseURL == "" {
		t.Fatalf("expected defaults to survive layering")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	settings := defaultSettings()
	settings.Server.Port = 0
	if err := settings.Validate(); err == nil {
		t.Fatalf("expected error for port 0")
	}

	settings = defaultSettings()
	settings.Catalog.BaseURL = ""
	if err := settings.Validate(); err == nil {
		t.Fatalf("expected error for empty catalog base url")
	}

	settings = defaultSettings()
	settings.Session.DebounceInterval = 0
	if err := settings.Validate(); err == nil {
		t.Fatalf("expected error for zero debounce interval")
	}
}

func TestEnvToPathSplitsOnFirstUnderscore(t *testing.T) {
	cases := map[string]string{
		"REELFINDER_CATALOG_API_KEY":           "catalog.api_key",
		"REELFINDER_SERVER_PORT":               "server.port",
		"REELFINDER_SESSION_DEBOUNCE_INTERVAL": "session.debounce_interval",
	}
	for in, want := range cases {
		if got := envToPath(in); got != want {
			t.Fatalf("envToPath(%q) = %q, want %q", in, got, want)
		}
	}
}
