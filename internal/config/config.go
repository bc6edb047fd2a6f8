package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Execution ExecutionConfig `yaml:"execution"`
	Retention RetentionConfig `yaml:"retention"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds database connection settings. An empty URL runs
// the server on in-memory repositories only.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// StorageConfig holds document storage settings.
type StorageConfig struct {
	Dir          string `yaml:"dir"`           // uploaded document directory
	WorkspaceDir string `yaml:"workspace_dir"` // file_operations tool workspace
}

// AuthConfig holds token settings. An empty secret disables auth and
// every request runs as the development user.
type AuthConfig struct {
	Secret      string        `yaml:"secret"`
	TokenExpiry time.Duration `yaml:"token_expiry"`
}

// ExecutionConfig bounds workflow execution.
type ExecutionConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"` // max executions running at once (default: 4)
	MaxIterations int `yaml:"max_iterations"` // default iteration cap for new workflows
}

// RetentionConfig controls the background sweep of old executions.
type RetentionConfig struct {
	Schedule string        `yaml:"schedule"` // cron spec; empty disables the sweeper
	MaxAge   time.Duration `yaml:"max_age"`  // completed executions older than this are removed
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Dir:          "uploads",
			WorkspaceDir: "workspace",
		},
		Auth: AuthConfig{
			TokenExpiry: 30 * time.Minute,
		},
		Execution: ExecutionConfig{
			MaxConcurrent: 4,
			MaxIterations: 5,
		},
		Retention: RetentionConfig{
			Schedule: "0 3 * * *",
			MaxAge:   30 * 24 * time.Hour,
		},
	}
}

// Load reads a YAML configuration file at path and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Execution.MaxConcurrent < 1 {
		cfg.Execution.MaxConcurrent = 1
	}
	// Environment overrides for the secrets that should not sit in YAML.
	if v := os.Getenv("AGENTBOARD_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("AGENTBOARD_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}

	return cfg, nil
}

// LoadDefault tries to load "config.yaml" from the current directory.
// If the file does not exist, it returns sensible defaults.
// Any other error (e.g. permission denied, malformed YAML) is returned.
func LoadDefault() (*Config, error) {
	cfg, err := Load("config.yaml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = defaults()
			if v := os.Getenv("AGENTBOARD_DATABASE_URL"); v != "" {
				cfg.Database.URL = v
			}
			if v := os.Getenv("AGENTBOARD_AUTH_SECRET"); v != "" {
				cfg.Auth.Secret = v
			}
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}
