// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dashboard DashboardConfig `toml:"dashboard"`
	Fill      FillConfig      `toml:"fill"`
}

// DashboardConfig maps dashboard settings.
type DashboardConfig struct {
	DataDir  *string `toml:"data-dir"`
	Password *string `toml:"password"`
	PageSize *int    `toml:"page-size"`
}

// FillConfig maps test-card form filling settings.
type FillConfig struct {
	URL        *string        `toml:"url"`
	HolderName *string        `toml:"holder-name"`
	Headless   *bool          `toml:"headless"`
	Wait       *time.Duration `toml:"wait"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
