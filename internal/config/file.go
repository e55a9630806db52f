package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFilePath is where the YAML config file is looked for when HB_CONFIG is unset.
func DefaultFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".hb", "config.yaml")
}

// FilePath resolves the YAML config file location.
func FilePath() string {
	if p := os.Getenv("HB_CONFIG"); p != "" {
		return p
	}
	return DefaultFilePath()
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the file
// keep their current values. A missing file is not an error unless required.
func (c *Config) LoadFile(path string, required bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return &ConfigError{Field: "file", Message: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return &ConfigError{Field: "file", Message: fmt.Sprintf("invalid YAML in %s: %v", path, err)}
	}
	return nil
}
