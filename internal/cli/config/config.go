// Package config provides configuration management for the Roost CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultServerURL is the hardcoded fallback when no server URL is
// configured anywhere.
const DefaultServerURL = "https://api.roosthq.com"

// Config represents the CLI configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	OAuth  OAuthConfig  `koanf:"oauth"`
	State  StateConfig  `koanf:"state"`
}

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// OAuthConfig holds the browser sign-in settings.
type OAuthConfig struct {
	Provider string `koanf:"provider"`
	Issuer   string `koanf:"issuer"`
	ClientID string `koanf:"client_id"`
}

// StateConfig holds local state storage settings.
type StateConfig struct {
	Path string `koanf:"path"` // SQLite file holding session and theme
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	ConfigPath string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     DefaultServerURL,
			Timeout: 30 * time.Second,
		},
		OAuth: OAuthConfig{
			Provider: "google",
			Issuer:   "https://accounts.google.com",
		},
		State: StateConfig{
			Path: filepath.Join(configDir(), "state.db"),
		},
	}
}

// Load loads configuration from file and environment, layered over the
// defaults. The file is optional; environment variables (ROOST_*) win.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	cfg := Default()

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(configDir(), "config.toml")
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// ROOST_SERVER_URL -> server.url
	if err := k.Load(env.Provider("ROOST_", ".", func(s string) string {
		return envToKey(s[6:])
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// configDir returns the configuration directory.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "roost")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".roost"
	}
	return filepath.Join(home, ".config", "roost")
}

// ConfigDir returns the configuration directory (exported).
func ConfigDir() string {
	return configDir()
}

// envToKey converts an environment variable suffix to a config key,
// e.g. SERVER_URL -> server.url.
func envToKey(s string) string {
	result := ""
	for i, c := range s {
		if c == '_' {
			result += "."
		} else if i > 0 && s[i-1] == '_' {
			result += string(c - 'A' + 'a')
		} else {
			result += string(c - 'A' + 'a')
		}
	}
	return result
}
