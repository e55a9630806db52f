package config

import (
	"os"
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	filePath string
}

// NewLoader creates a new configuration loader reading the default file location
func NewLoader() *Loader {
	return &Loader{
		config:   NewConfig(),
		filePath: FilePath(),
	}
}

// WithFile makes the loader read path instead of the default file.
func (l *Loader) WithFile(path string) *Loader {
	l.filePath = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Overlay the YAML file, if present
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	// An explicitly named file must exist.
	required := os.Getenv("HB_CONFIG") != "" && l.filePath == os.Getenv("HB_CONFIG")
	if l.filePath != "" {
		if err := l.config.LoadFile(l.filePath, required); err != nil {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	ApplyOverrides(config, overrides)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDir          *string
	DBFilename     *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	// Validation overrides
	TaskTextMaxLength *int

	// Application overrides
	Timeout *time.Duration
	Verbose *bool

	// Door overrides
	DoorURL          *string
	DoorPollInterval *time.Duration
	DoorPoll         *bool

	// Server overrides
	ServerAddr *string
	RedisAddr  *string
	Telemetry  *bool
}

// ApplyOverrides copies every set override onto config. A nil overrides is a no-op.
func ApplyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides == nil {
		return
	}
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.DBWriteTimeout != nil {
		config.Database.WriteTimeout = *overrides.DBWriteTimeout
	}

	if overrides.TaskTextMaxLength != nil {
		config.Validation.TaskTextMaxLength = *overrides.TaskTextMaxLength
	}

	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
		if *overrides.Verbose {
			config.Application.LogLevel = "debug"
		}
	}

	if overrides.DoorURL != nil {
		config.Door.BaseURL = *overrides.DoorURL
	}
	if overrides.DoorPollInterval != nil {
		config.Door.PollInterval = *overrides.DoorPollInterval
	}
	if overrides.DoorPoll != nil {
		config.Door.Poll = *overrides.DoorPoll
	}

	if overrides.ServerAddr != nil {
		config.Server.Addr = *overrides.ServerAddr
	}
	if overrides.RedisAddr != nil {
		config.Redis.Addr = *overrides.RedisAddr
	}
	if overrides.Telemetry != nil {
		config.Telemetry.Enabled = *overrides.Telemetry
	}
}
