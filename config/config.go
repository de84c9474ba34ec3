// Package config loads and saves editor settings from a YAML file under
// the user's config directory. A missing file means defaults; a broken
// file falls back to defaults with the parse error reported.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Theme holds the color palette as lipgloss-compatible color strings.
type Theme struct {
	Accent    string `yaml:"accent"`
	Muted     string `yaml:"muted"`
	Selection string `yaml:"selection"`
	Marker    string `yaml:"marker"`
}

// Config is the persisted editor configuration.
type Config struct {
	DataDir         string `yaml:"data_dir"`
	LogFile         string `yaml:"log_file"`
	AutosaveDelayMS int    `yaml:"autosave_delay_ms"`
	SoftWrap        bool   `yaml:"soft_wrap"`
	Suggestions     bool   `yaml:"suggestions"`
	Theme           Theme  `yaml:"theme"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:         filepath.Join(home, ".local", "share", "vellum"),
		LogFile:         filepath.Join(home, ".local", "state", "vellum", "vellum.log"),
		AutosaveDelayMS: 1000,
		SoftWrap:        true,
		Suggestions:     true,
		Theme: Theme{
			Accent:    "205",
			Muted:     "241",
			Selection: "237",
			Marker:    "244",
		},
	}
}

// AutosaveDelay returns the autosave debounce as a duration, floored so
// a nonsense value cannot make the editor save on every keystroke.
func (c Config) AutosaveDelay() time.Duration {
	if c.AutosaveDelayMS < 100 {
		return time.Second
	}
	return time.Duration(c.AutosaveDelayMS) * time.Millisecond
}

// Path returns the location of the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "vellum", "config.yaml"), nil
}

// Load reads the config file, filling unset fields with defaults. The
// returned Config is usable even when err is non-nil.
func Load() (Config, error) {
	cfg := Default()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the config file, creating the directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
