package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.URL != DefaultServerURL {
		t.Errorf("Server.URL = %q, want %q", cfg.Server.URL, DefaultServerURL)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v, want 30s", cfg.Server.Timeout)
	}
	if cfg.OAuth.Provider != "google" {
		t.Errorf("OAuth.Provider = %q, want %q", cfg.OAuth.Provider, "google")
	}
	if cfg.State.Path == "" {
		t.Error("State.Path must have a default")
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.URL != DefaultServerURL {
		t.Errorf("Server.URL = %q, want default", cfg.Server.URL)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
url = "https://roost.example.com"
timeout = "5s"

[oauth]
provider = "google"
issuer = "https://accounts.google.com"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(LoadOptions{ConfigPath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.URL != "https://roost.example.com" {
		t.Errorf("Server.URL = %q, want file value", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Server.Timeout = %v, want 5s", cfg.Server.Timeout)
	}
	// Values the file omits keep their defaults.
	if cfg.State.Path == "" {
		t.Error("State.Path must keep its default")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
url = "https://from-file.example.com"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("ROOST_SERVER_URL", "https://from-env.example.com")

	cfg, err := Load(LoadOptions{ConfigPath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.URL != "https://from-env.example.com" {
		t.Errorf("Server.URL = %q, want env value", cfg.Server.URL)
	}
}

func TestEnvToKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SERVER_URL", "server.url"},
		{"SERVER_TIMEOUT", "server.timeout"},
		{"OAUTH_PROVIDER", "oauth.provider"},
	}

	for _, tt := range tests {
		if got := envToKey(tt.in); got != tt.want {
			t.Errorf("envToKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
