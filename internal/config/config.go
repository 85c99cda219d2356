package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kurihiro0119/repo-hub/internal/domain"
)

// Config holds the application configuration
type Config struct {
	// Hosting backend used for aggregation ("github" or "gitlab")
	Backend        string
	RequestTimeout time.Duration

	// Hub settings file (name, email, orgs)
	HubPath string

	// Storage of aggregation runs
	StorageType string // "none", "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// API Server
	APIPort   string
	APIHost   string
	PublicDir string

	// CLI
	APIEndpoint string

	LogLevel string

	timeoutErr error
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Backend:     getEnv("BACKEND", "github"),
		HubPath:     getEnv("HUB_CONFIG", "hub.toml"),
		StorageType: getEnv("STORAGE_TYPE", "none"),
		SQLitePath:  getEnv("SQLITE_PATH", "./repo-hub.db"),
		PostgresURL: getEnv("POSTGRES_URL", ""),
		APIPort:     getEnv("API_PORT", "8000"),
		APIHost:     getEnv("API_HOST", "localhost"),
		PublicDir:   getEnv("PUBLIC_DIR", "public"),
		APIEndpoint: getEnv("API_ENDPOINT", "http://localhost:8000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.RequestTimeout, cfg.timeoutErr = time.ParseDuration(getEnv("REQUEST_TIMEOUT", "15s"))

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := domain.ParseBackend(c.Backend); err != nil {
		return &ConfigError{Field: "BACKEND", Message: "must be 'github' or 'gitlab'"}
	}
	if c.timeoutErr != nil || c.RequestTimeout <= 0 {
		return &ConfigError{Field: "REQUEST_TIMEOUT", Message: "must be a positive duration such as '15s'"}
	}
	switch c.StorageType {
	case "none", "sqlite":
	case "postgres":
		if c.PostgresURL == "" {
			return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
		}
	default:
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be 'none', 'sqlite' or 'postgres'"}
	}
	return nil
}

// AggregationBackend returns the parsed aggregation backend.
// Call Validate first.
func (c *Config) AggregationBackend() domain.Backend {
	b, _ := domain.ParseBackend(c.Backend)
	return b
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
