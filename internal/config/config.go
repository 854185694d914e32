// Package config manages the relaypick tool configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds per-user tool defaults. Flags override everything here.
type Config struct {
	Output    OutputConfig   `toml:"output"`
	Overrides OverrideConfig `toml:"overrides"`
	Logging   LoggingConfig  `toml:"logging"`
}

// OutputConfig controls default output naming.
type OutputConfig struct {
	Prefix string `toml:"prefix"`
}

// OverrideConfig carries default document field overrides.
type OverrideConfig struct {
	Address    string   `toml:"address"`
	DNS        []string `toml:"dns"`
	PrivateKey string   `toml:"private_key"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{
			Prefix: "",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfig reads config from ~/.relaypick/config.toml, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(relaypickHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.relaypick/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(relaypickHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// relaypickHome returns the relaypick data directory.
func relaypickHome() string {
	if env := os.Getenv("RELAYPICK_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".relaypick")
}

// Home is exported for use by other packages.
func Home() string {
	return relaypickHome()
}
