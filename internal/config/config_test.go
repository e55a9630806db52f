package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultsAreValid(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "hb.db", cfg.Database.Filename)
	assert.Equal(t, 15*time.Second, cfg.Door.PollInterval)
	assert.Equal(t, "$.status", cfg.Door.StatusPath)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Feedback.DefaultLimit)
	assert.Equal(t, filepath.Join(cfg.Database.Dir, "hb.db"), cfg.GetDatabasePath())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HB_DB_DIR", "/tmp/hb")
	t.Setenv("HB_DB_QUERY_TIMEOUT", "3s")
	t.Setenv("HB_DOOR_POLL_INTERVAL", "30s")
	t.Setenv("HB_SERVER_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("HB_REDIS_DB", "2")
	t.Setenv("HB_TELEMETRY_ENABLED", "true")
	t.Setenv("HB_FEEDBACK_LIMIT", "not-a-number")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, "/tmp/hb", cfg.Database.Dir)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 30*time.Second, cfg.Door.PollInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 10, cfg.Feedback.DefaultLimit, "unparseable values keep the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "empty db dir", mutate: func(c *Config) { c.Database.Dir = "" }, field: "database.dir"},
		{name: "max below min", mutate: func(c *Config) { c.Validation.TaskTextMaxLength = 0 }, field: "validation.task_text_max_length"},
		{name: "bad log mode", mutate: func(c *Config) { c.Application.LogMode = "loud" }, field: "application.log_mode"},
		{name: "zero poll interval", mutate: func(c *Config) { c.Door.PollInterval = 0 }, field: "door.poll_interval"},
		{name: "status path not jsonpath", mutate: func(c *Config) { c.Door.StatusPath = "status" }, field: "door.status_path"},
		{name: "empty server addr", mutate: func(c *Config) { c.Server.Addr = "" }, field: "server.addr"},
		{name: "negative redis db", mutate: func(c *Config) { c.Redis.DB = -1 }, field: "redis.db"},
		{name: "zero feedback limit", mutate: func(c *Config) { c.Feedback.DefaultLimit = 0 }, field: "feedback.default_limit"},
		{name: "telemetry without name", mutate: func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.ServiceName = ""
		}, field: "telemetry.service_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  filename: other.db
door:
  base_url: http://door.local:8080
  poll_interval: 45s
server:
  allowed_origins: ["http://localhost:3000"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFile(path, true))

	assert.Equal(t, "other.db", cfg.Database.Filename)
	assert.Equal(t, "http://door.local:8080", cfg.Door.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Door.PollInterval)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout, "absent keys keep defaults")
}

func TestLoadFile_MissingAndInvalid(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.yaml")

	assert.NoError(t, NewConfig().LoadFile(missing, false))
	assert.Error(t, NewConfig().LoadFile(missing, true))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("door: [unclosed"), 0o600))
	err := NewConfig().LoadFile(bad, false)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "file", cfgErr.Field)
}

func TestLoader_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\ndoor:\n  base_url: http://file\n"), 0o600))
	t.Setenv("HB_DOOR_URL", "http://env")

	addr := ":9000"
	verbose := true
	cfg, err := NewLoader().WithFile(path).LoadWithOverrides(&ConfigOverrides{
		ServerAddr: &addr,
		Verbose:    &verbose,
	})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr, "flag beats file")
	assert.Equal(t, "http://env", cfg.Door.BaseURL, "env beats file")
	assert.Equal(t, "debug", cfg.Application.LogLevel)
}

func TestLoader_OverridesAreValidated(t *testing.T) {
	empty := ""
	_, err := NewLoader().WithFile("").LoadWithOverrides(&ConfigOverrides{ServerAddr: &empty})
	assert.Error(t, err)
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDurationWithFallback("5s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("soon", time.Second))
	assert.Equal(t, 3, ParseIntWithFallback("x", 3))
	assert.True(t, ParseBoolWithFallback("maybe", true))
	assert.Equal(t, uint32(0o700), ParseUint32WithFallback("700", 8, 0))
}

func TestApplyOverrides(t *testing.T) {
	cfg := NewConfig()
	ApplyOverrides(cfg, nil)
	assert.Equal(t, NewConfig().Door, cfg.Door)

	poll := true
	interval := 3 * time.Second
	ApplyOverrides(cfg, &ConfigOverrides{DoorPoll: &poll, DoorPollInterval: &interval})
	assert.True(t, cfg.Door.Poll)
	assert.Equal(t, 3*time.Second, cfg.Door.PollInterval)
}
