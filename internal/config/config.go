// Package config loads optional defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the optional dirsize configuration file.
// Unset fields are nil so that callers can tell them from explicit false.
type Config struct {
	HumanReadable   *bool   `yaml:"human_readable"`
	IgnoreHardlinks *bool   `yaml:"ignore_hardlinks"`
	FollowSymlinks  *bool   `yaml:"follow_symlinks"`
	MaxRetries      *int    `yaml:"max_retries"`
	Engine          *string `yaml:"engine"`
	Output          *string `yaml:"output"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}

		dir = filepath.Join(home, ".config")
	}

	return filepath.Join(dir, "dirsize", "config.yaml")
}

// Load reads the config file at path, or at Path() when path is empty.
// A missing file at the default location yields a zero Config; a missing
// file that was named explicitly is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	if path == "" {
		return Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}

	return cfg, nil
}
