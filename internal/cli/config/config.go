// Package config loads the optional pulse.yml project file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the Pulse project configuration.
type Config struct {
	OutputDir  string `mapstructure:"output_dir"`
	StdlibPath string `mapstructure:"stdlib_path"`
	Compiler   string `mapstructure:"compiler"`
}

// Load reads pulse.yml (or pulse.yaml) from the current directory, falling
// back to defaults when no file is present.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("output_dir", "build")
	v.SetDefault("stdlib_path", "std/lib.cpp")
	v.SetDefault("compiler", "")

	v.SetConfigName("pulse")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// InProject reports whether the current directory contains a pulse.yml or
// pulse.yaml.
func InProject() bool {
	if _, err := os.Stat("pulse.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("pulse.yaml"); err == nil {
		return true
	}
	return false
}

// GetProjectRoot walks up from the current directory looking for a
// pulse.yml or pulse.yaml.
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "pulse.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "pulse.yaml")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Pulse project (no pulse.yml found)")
		}
		dir = parent
	}
}

// StdlibDir returns the directory containing cfg.StdlibPath. The
// generated prelude's `#include "../std/lib.cpp"` is a fixed path and
// does not read this setting.
func (c *Config) StdlibDir() string {
	return filepath.Dir(c.StdlibPath)
}
