package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	content := `[engine]
name = "test-rig"
tick_rate = "50ms"

[database]
enabled = true
dsn = "postgres://test@localhost:5432/test"

[simulation]
belt_speed_tier = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.Name != "test-rig" {
		t.Errorf("name = %q", cfg.Engine.Name)
	}
	if cfg.Engine.TickRate != 50*time.Millisecond {
		t.Errorf("tick rate = %v, want 50ms", cfg.Engine.TickRate)
	}
	if !cfg.Database.Enabled {
		t.Error("database not enabled")
	}
	if cfg.Simulation.BeltSpeedTier != 3 {
		t.Errorf("belt speed tier = %d, want 3", cfg.Simulation.BeltSpeedTier)
	}

	// Unset keys keep their defaults.
	if cfg.Engine.DataDir != "data/yaml" {
		t.Errorf("data dir = %q, want default", cfg.Engine.DataDir)
	}
	if cfg.Simulation.AutosaveTicks != 3000 {
		t.Errorf("autosave ticks = %d, want default 3000", cfg.Simulation.AutosaveTicks)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("max open conns = %d, want default 10", cfg.Database.MaxOpenConns)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v, want defaults", cfg.Logging)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[engine\nname ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for broken toml")
	}
}
