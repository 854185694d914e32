package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Output.Prefix != "" {
		t.Errorf("Output.Prefix = %q, want empty", cfg.Output.Prefix)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("RELAYPICK_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want default", cfg.Logging.Level)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RELAYPICK_HOME", home)

	body := `[output]
prefix = "wg-"

[overrides]
dns = ["10.64.0.1"]

[logging]
level = "debug"
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Output.Prefix != "wg-" {
		t.Errorf("Output.Prefix = %q, want %q", cfg.Output.Prefix, "wg-")
	}
	if len(cfg.Overrides.DNS) != 1 || cfg.Overrides.DNS[0] != "10.64.0.1" {
		t.Errorf("Overrides.DNS = %v, want [10.64.0.1]", cfg.Overrides.DNS)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("RELAYPICK_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Output.Prefix = "relay-"
	cfg.Overrides.Address = "10.0.0.2/32"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.Output.Prefix != "relay-" || loaded.Overrides.Address != "10.0.0.2/32" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}
