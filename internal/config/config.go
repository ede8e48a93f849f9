package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultUser     = "default_user"
	DefaultHTTPAddr = "127.0.0.1:8001"
	appDir          = "cyclr"
)

// Config holds the process configuration.
type Config struct {
	DBPath      string
	UserID      string
	HTTPAddr    string
	LogLevel    string
	Environment string
	LogFile     string // TUI mode only; the terminal belongs to the UI
}

// Load reads configuration from the environment and a .env file in the
// working directory, if present. Variables already set in the environment
// win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:      os.Getenv("CYCLR_DB_PATH"),
		UserID:      os.Getenv("CYCLR_USER"),
		HTTPAddr:    os.Getenv("CYCLR_HTTP_ADDR"),
		LogLevel:    strings.ToLower(os.Getenv("LOG_LEVEL")),
		Environment: strings.ToLower(os.Getenv("ENVIRONMENT")),
		LogFile:     os.Getenv("CYCLR_LOG_FILE"),
	}

	if cfg.DBPath == "" || cfg.LogFile == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "cyclr.db")
		}
		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(dir, "cyclr.log")
		}
	}
	if cfg.UserID == "" {
		cfg.UserID = DefaultUser
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	return cfg, nil
}

// DefaultDir returns ~/.config/cyclr (or the platform equivalent).
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, appDir), nil
}

// IsProduction reports whether logs should be machine-readable.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "staging"
}
