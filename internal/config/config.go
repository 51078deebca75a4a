// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// Token is normally sourced from the local preference store or the
	// PRAPP_TOKEN env var; setting it here overrides both.
	Token string `yaml:"token"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StorageConfig struct {
	Path string `yaml:"path"` // sqlite file for local preferences
}

type DebugConfig struct {
	Addr string `yaml:"addr"` // metrics/health listener, "" disables
}

type SessionConfig struct {
	DefaultPreparationType string `yaml:"default_preparation_type"`
	DefaultTone            string `yaml:"default_tone"`
}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Debug   DebugConfig   `yaml:"debug"`
	Session SessionConfig `yaml:"session"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML config at path and applies env overrides.
// A missing .env file is not an error.
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./data/prapp.db"
	}
	if cfg.Session.DefaultPreparationType == "" {
		cfg.Session.DefaultPreparationType = "Interview"
	}
	if cfg.Session.DefaultTone == "" {
		cfg.Session.DefaultTone = "Professional & Confident"
	}

	if v := os.Getenv("PRAPP_TOKEN"); v != "" && cfg.API.Token == "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("PRAPP_BASE_URL"); v != "" && cfg.API.BaseURL == "" {
		cfg.API.BaseURL = v
	}

	// Minimal validation
	if cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url is required")
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
