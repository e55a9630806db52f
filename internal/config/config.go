package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration options for homebase
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Time        TimeConfig        `yaml:"time"`
	Validation  ValidationConfig  `yaml:"validation"`
	Display     DisplayConfig     `yaml:"display"`
	Application ApplicationConfig `yaml:"application"`
	Door        DoorConfig        `yaml:"door"`
	Server      ServerConfig      `yaml:"server"`
	Redis       RedisConfig       `yaml:"redis"`
	Feedback    FeedbackConfig    `yaml:"feedback"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" env:"HB_DB_DIR"`
	Filename       string        `yaml:"filename" env:"HB_DB_FILENAME"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"HB_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HB_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"HB_DB_DIR_PERMISSIONS"`
}

// TimeConfig holds date formatting configuration
type TimeConfig struct {
	DateFormat string `yaml:"date_format" env:"HB_TIME_DATE_FORMAT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskTextMinLength int `yaml:"task_text_min_length" env:"HB_VALIDATION_TASK_TEXT_MIN"`
	TaskTextMaxLength int `yaml:"task_text_max_length" env:"HB_VALIDATION_TASK_TEXT_MAX"`
	NameMaxLength     int `yaml:"name_max_length" env:"HB_VALIDATION_NAME_MAX"`
	MessageMaxLength  int `yaml:"message_max_length" env:"HB_VALIDATION_MESSAGE_MAX"`
	MaxCartQuantity   int `yaml:"max_cart_quantity" env:"HB_VALIDATION_MAX_CART_QUANTITY"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	ListWidth     int    `yaml:"list_width" env:"HB_DISPLAY_LIST_WIDTH"`
	OverdueMarker string `yaml:"overdue_marker" env:"HB_DISPLAY_OVERDUE_MARKER"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout  time.Duration `yaml:"timeout" env:"HB_APP_TIMEOUT"`
	Verbose  bool          `yaml:"verbose" env:"HB_APP_VERBOSE"`
	LogMode  string        `yaml:"log_mode" env:"HB_LOG_MODE"`
	LogLevel string        `yaml:"log_level" env:"HB_LOG_LEVEL"`
}

// DoorConfig points at the smart-door companion service
type DoorConfig struct {
	BaseURL        string        `yaml:"base_url" env:"HB_DOOR_URL"`
	PollInterval   time.Duration `yaml:"poll_interval" env:"HB_DOOR_POLL_INTERVAL"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HB_DOOR_REQUEST_TIMEOUT"`
	StatusPath     string        `yaml:"status_path" env:"HB_DOOR_STATUS_PATH"`
	Poll           bool          `yaml:"poll" env:"HB_DOOR_POLL"`
}

// ServerConfig holds the companion HTTP server settings
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"HB_SERVER_ADDR"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"HB_SERVER_ALLOWED_ORIGINS"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HB_SERVER_SHUTDOWN_TIMEOUT"`
}

// RedisConfig selects the redis bus. When Addr is empty an in-process bus is used.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"HB_REDIS_ADDR"`
	Password string `yaml:"password" env:"HB_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"HB_REDIS_DB"`
	Prefix   string `yaml:"prefix" env:"HB_REDIS_PREFIX"`
}

// FeedbackConfig holds feedback wall settings
type FeedbackConfig struct {
	DefaultLimit int `yaml:"default_limit" env:"HB_FEEDBACK_LIMIT"`
}

// TelemetryConfig controls tracing
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" env:"HB_TELEMETRY_ENABLED"`
	ServiceName string `yaml:"service_name" env:"HB_TELEMETRY_SERVICE_NAME"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDir := filepath.Join(homeDir, ".hb")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDir,
			Filename:       "hb.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			DateFormat: "2006-01-02",
		},
		Validation: ValidationConfig{
			TaskTextMinLength: 1,
			TaskTextMaxLength: 500,
			NameMaxLength:     100,
			MessageMaxLength:  2000,
			MaxCartQuantity:   99,
		},
		Display: DisplayConfig{
			ListWidth:     60,
			OverdueMarker: "overdue",
		},
		Application: ApplicationConfig{
			Timeout:  60 * time.Second,
			LogMode:  "development",
			LogLevel: "warn",
		},
		Door: DoorConfig{
			BaseURL:        "http://localhost:5000",
			PollInterval:   15 * time.Second,
			RequestTimeout: 10 * time.Second,
			StatusPath:     "$.status",
		},
		Server: ServerConfig{
			Addr:            ":5000",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Prefix: "hb",
		},
		Feedback: FeedbackConfig{
			DefaultLimit: 10,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "homebase",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// LoadFromEnvironment loads configuration from environment variables.
// Values that fail to parse are ignored and the previous value kept.
func (c *Config) LoadFromEnvironment() error {
	setString(&c.Database.Dir, "HB_DB_DIR")
	setString(&c.Database.Filename, "HB_DB_FILENAME")
	setDuration(&c.Database.QueryTimeout, "HB_DB_QUERY_TIMEOUT")
	setDuration(&c.Database.WriteTimeout, "HB_DB_WRITE_TIMEOUT")
	if perms := os.Getenv("HB_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	setString(&c.Time.DateFormat, "HB_TIME_DATE_FORMAT")

	setInt(&c.Validation.TaskTextMinLength, "HB_VALIDATION_TASK_TEXT_MIN")
	setInt(&c.Validation.TaskTextMaxLength, "HB_VALIDATION_TASK_TEXT_MAX")
	setInt(&c.Validation.NameMaxLength, "HB_VALIDATION_NAME_MAX")
	setInt(&c.Validation.MessageMaxLength, "HB_VALIDATION_MESSAGE_MAX")
	setInt(&c.Validation.MaxCartQuantity, "HB_VALIDATION_MAX_CART_QUANTITY")

	setInt(&c.Display.ListWidth, "HB_DISPLAY_LIST_WIDTH")
	setString(&c.Display.OverdueMarker, "HB_DISPLAY_OVERDUE_MARKER")

	setDuration(&c.Application.Timeout, "HB_APP_TIMEOUT")
	setBool(&c.Application.Verbose, "HB_APP_VERBOSE")
	setString(&c.Application.LogMode, "HB_LOG_MODE")
	setString(&c.Application.LogLevel, "HB_LOG_LEVEL")

	setString(&c.Door.BaseURL, "HB_DOOR_URL")
	setDuration(&c.Door.PollInterval, "HB_DOOR_POLL_INTERVAL")
	setDuration(&c.Door.RequestTimeout, "HB_DOOR_REQUEST_TIMEOUT")
	setString(&c.Door.StatusPath, "HB_DOOR_STATUS_PATH")
	setBool(&c.Door.Poll, "HB_DOOR_POLL")

	setString(&c.Server.Addr, "HB_SERVER_ADDR")
	if origins := os.Getenv("HB_SERVER_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	setDuration(&c.Server.ShutdownTimeout, "HB_SERVER_SHUTDOWN_TIMEOUT")

	setString(&c.Redis.Addr, "HB_REDIS_ADDR")
	setString(&c.Redis.Password, "HB_REDIS_PASSWORD")
	setInt(&c.Redis.DB, "HB_REDIS_DB")
	setString(&c.Redis.Prefix, "HB_REDIS_PREFIX")

	setInt(&c.Feedback.DefaultLimit, "HB_FEEDBACK_LIMIT")

	setBool(&c.Telemetry.Enabled, "HB_TELEMETRY_ENABLED")
	setString(&c.Telemetry.ServiceName, "HB_TELEMETRY_SERVICE_NAME")

	return nil
}

// Validate validates the configuration and returns the first problem found
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Time.DateFormat == "" {
		return &ConfigError{Field: "time.date_format", Message: "date format cannot be empty"}
	}

	if c.Validation.TaskTextMinLength < 1 {
		return &ConfigError{Field: "validation.task_text_min_length", Message: "task text minimum length must be at least 1"}
	}
	if c.Validation.TaskTextMaxLength < c.Validation.TaskTextMinLength {
		return &ConfigError{Field: "validation.task_text_max_length", Message: "task text maximum length must be greater than minimum length"}
	}
	if c.Validation.NameMaxLength < 1 {
		return &ConfigError{Field: "validation.name_max_length", Message: "name maximum length must be at least 1"}
	}
	if c.Validation.MessageMaxLength < 1 {
		return &ConfigError{Field: "validation.message_max_length", Message: "message maximum length must be at least 1"}
	}
	if c.Validation.MaxCartQuantity < 1 {
		return &ConfigError{Field: "validation.max_cart_quantity", Message: "maximum cart quantity must be at least 1"}
	}

	if c.Display.ListWidth < 20 {
		return &ConfigError{Field: "display.list_width", Message: "list width must be at least 20"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	switch strings.ToLower(c.Application.LogMode) {
	case "development", "dev", "production", "prod":
	default:
		return &ConfigError{Field: "application.log_mode", Message: "log mode must be development or production"}
	}

	if c.Door.BaseURL == "" {
		return &ConfigError{Field: "door.base_url", Message: "door service URL cannot be empty"}
	}
	if c.Door.PollInterval <= 0 {
		return &ConfigError{Field: "door.poll_interval", Message: "poll interval must be positive"}
	}
	if c.Door.RequestTimeout <= 0 {
		return &ConfigError{Field: "door.request_timeout", Message: "request timeout must be positive"}
	}
	if !strings.HasPrefix(c.Door.StatusPath, "$") {
		return &ConfigError{Field: "door.status_path", Message: "status path must be a JSONPath starting with $"}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	if c.Redis.DB < 0 {
		return &ConfigError{Field: "redis.db", Message: "redis database index cannot be negative"}
	}

	if c.Feedback.DefaultLimit < 1 {
		return &ConfigError{Field: "feedback.default_limit", Message: "default limit must be at least 1"}
	}

	if c.Telemetry.Enabled && c.Telemetry.ServiceName == "" {
		return &ConfigError{Field: "telemetry.service_name", Message: "service name is required when telemetry is enabled"}
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

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = ParseIntWithFallback(v, *dst)
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = ParseBoolWithFallback(v, *dst)
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = ParseDurationWithFallback(v, *dst)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
