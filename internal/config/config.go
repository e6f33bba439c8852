package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDirName is the directory under $HOME holding the database and the
// config file.
const DefaultDirName = ".todo"

// Config holds all configuration options for the todo application
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	Bridge      BridgeConfig      `yaml:"bridge"`
	Validation  ValidationConfig  `yaml:"validation"`
	Application ApplicationConfig `yaml:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir         string        `yaml:"dir" env:"TODO_DB_DIR"`
	Filename    string        `yaml:"filename" env:"TODO_DB_FILENAME" env-default:"todo.db"`
	InMemory    bool          `yaml:"in_memory" env:"TODO_DB_IN_MEMORY" env-default:"false"`
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"TODO_DB_BUSY_TIMEOUT" env-default:"5s"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"TODO_LOG_LEVEL" env-default:"INFO"`
	Debug bool   `yaml:"debug" env:"TODO_LOG_DEBUG" env-default:"false"`
}

// BridgeConfig tunes live result delivery.
type BridgeConfig struct {
	Quantum time.Duration `yaml:"quantum" env:"TODO_BRIDGE_QUANTUM" env-default:"1ms"`
}

// ValidationConfig holds the input limits enforced by the CLI
type ValidationConfig struct {
	TitleMinLength      int `yaml:"title_min_length" env:"TODO_VALIDATION_TITLE_MIN" env-default:"1"`
	TitleMaxLength      int `yaml:"title_max_length" env:"TODO_VALIDATION_TITLE_MAX" env-default:"50"`
	GroupTitleMaxLength int `yaml:"group_title_max_length" env:"TODO_VALIDATION_GROUP_TITLE_MAX" env-default:"20"`
	MemoMinLines        int `yaml:"memo_min_lines" env:"TODO_VALIDATION_MEMO_MIN_LINES" env-default:"10"`
	MemoMaxLines        int `yaml:"memo_max_lines" env:"TODO_VALIDATION_MEMO_MAX_LINES" env-default:"15"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"TODO_APP_TIMEOUT" env-default:"30s"`
}

// DefaultDir returns ~/.todo, or .todo when the home directory is unknown.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(homeDir, DefaultDirName)
}

// DefaultConfigPath is where the loader looks for a YAML file by default.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// NewConfig creates a new configuration with the same defaults the loader
// applies.
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dir:         DefaultDir(),
			Filename:    "todo.db",
			BusyTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "INFO",
		},
		Bridge: BridgeConfig{
			Quantum: time.Millisecond,
		},
		Validation: ValidationConfig{
			TitleMinLength:      1,
			TitleMaxLength:      50,
			GroupTitleMaxLength: 20,
			MemoMinLines:        10,
			MemoMaxLines:        15,
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// LogLevel returns the effective level name.
func (c *Config) LogLevel() string {
	if c.Log.Debug {
		return "DEBUG"
	}
	return c.Log.Level
}

var validLevels = map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "WARNING": true, "ERROR": true}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if !c.Database.InMemory {
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	}
	if c.Database.BusyTimeout < 0 {
		return &ConfigError{Field: "database.busy_timeout", Message: "busy timeout cannot be negative"}
	}

	if !validLevels[strings.ToUpper(c.Log.Level)] {
		return &ConfigError{Field: "log.level", Message: "unknown log level " + c.Log.Level}
	}

	if c.Bridge.Quantum <= 0 {
		return &ConfigError{Field: "bridge.quantum", Message: "delivery quantum must be positive"}
	}

	v := c.Validation
	if v.TitleMinLength < 1 {
		return &ConfigError{Field: "validation.title_min_length", Message: "title minimum length must be at least 1"}
	}
	if v.TitleMaxLength < v.TitleMinLength {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must not be less than minimum length"}
	}
	if v.GroupTitleMaxLength < v.TitleMinLength {
		return &ConfigError{Field: "validation.group_title_max_length", Message: "group title maximum length must not be less than minimum length"}
	}
	if v.MemoMinLines < 1 {
		return &ConfigError{Field: "validation.memo_min_lines", Message: "memo minimum lines must be at least 1"}
	}
	if v.MemoMaxLines < v.MemoMinLines {
		return &ConfigError{Field: "validation.memo_max_lines", Message: "memo maximum lines must not be less than minimum lines"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
