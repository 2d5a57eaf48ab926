package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "pendulum" {
		t.Errorf("expected model pendulum, got %s", cfg.Model)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.TimeRate != 1.0 {
		t.Errorf("expected time rate 1.0, got %f", cfg.TimeRate)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Model = "spring"
	cfg.InitState.Position = 2.5
	cfg.Params.Stiffness = 42

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Model != "spring" {
		t.Errorf("expected spring, got %s", loaded.Model)
	}
	if loaded.InitState.Position != 2.5 {
		t.Errorf("expected position 2.5, got %f", loaded.InitState.Position)
	}
	if loaded.Params.Stiffness != 42 {
		t.Errorf("expected stiffness 42, got %f", loaded.Params.Stiffness)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("model: spring\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "spring" {
		t.Errorf("expected spring, got %s", cfg.Model)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("unset dt should default to %f, got %f", DefaultDt, cfg.Dt)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.Angle != 0.2 {
		t.Errorf("expected angle 0.2, got %f", cfg.InitState.Angle)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("pendulum", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "small") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("spring")
	if len(presets) == 0 {
		t.Error("expected presets for spring")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitState = InitStateConfig{Angle: 0.7, Omega: -1, Position: 2, Velocity: 3}

	a, b := cfg.GetInitState()
	if a != 0.7 || b != -1 {
		t.Errorf("pendulum init: got %f, %f", a, b)
	}

	cfg.Model = "spring"
	a, b = cfg.GetInitState()
	if a != 2 || b != 3 {
		t.Errorf("spring init: got %f, %f", a, b)
	}
}
