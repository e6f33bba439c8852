package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	path string
}

// NewLoader creates a loader reading path. An empty path reads only the
// environment.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load loads configuration using the cascading strategy:
// 1. env-default tags
// 2. the YAML file, when it exists
// 3. TODO_* environment variables
func (l *Loader) Load() (*Config, error) {
	var cfg Config

	if l.path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(l.path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("cannot read config %q: %w", l.path, err)
		}
		// missing file
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env: %w", err)
		}
	}

	if cfg.Database.Dir == "" {
		cfg.Database.Dir = DefaultDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigOverrides holds command line flag overrides. Nil fields are left
// alone.
type ConfigOverrides struct {
	DBDir      *string
	DBFilename *string
	InMemory   *bool
	LogLevel   *string
	Timeout    *time.Duration
}

// Apply copies the set overrides into cfg.
func (o *ConfigOverrides) Apply(cfg *Config) {
	if o.DBDir != nil {
		cfg.Database.Dir = *o.DBDir
	}
	if o.DBFilename != nil {
		cfg.Database.Filename = *o.DBFilename
	}
	if o.InMemory != nil {
		cfg.Database.InMemory = *o.InMemory
	}
	if o.LogLevel != nil {
		cfg.Log.Level = *o.LogLevel
	}
	if o.Timeout != nil {
		cfg.Application.Timeout = *o.Timeout
	}
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
