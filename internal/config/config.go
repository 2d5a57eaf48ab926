// Package config loads run configuration from YAML files and built-in
// presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultTimeRate = 1.0
	DefaultCapacity = 6000
)

// Config describes one simulation run.
type Config struct {
	Model     string          `yaml:"model"`
	Solver    string          `yaml:"solver"`
	Dt        float64         `yaml:"dt"`
	Duration  float64         `yaml:"duration"`
	TimeRate  float64         `yaml:"time_rate"`
	Capacity  int             `yaml:"capacity"`
	InitState InitStateConfig `yaml:"init_state"`
	Params    ParamsConfig    `yaml:"params"`
	Log       LogConfig       `yaml:"log"`
}

// InitStateConfig holds initial conditions; which fields apply depends on
// the model.
type InitStateConfig struct {
	Angle    float64 `yaml:"angle"`
	Omega    float64 `yaml:"omega"`
	Position float64 `yaml:"position"`
	Velocity float64 `yaml:"velocity"`
}

// ParamsConfig holds model parameter overrides; zero means "leave the
// model's default".
type ParamsConfig struct {
	Mass       float64 `yaml:"mass"`
	Length     float64 `yaml:"length"`
	Gravity    float64 `yaml:"gravity"`
	Damping    float64 `yaml:"damping"`
	Stiffness  float64 `yaml:"stiffness"`
	RestLength float64 `yaml:"rest_length"`
}

// LogConfig selects log verbosity and format.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    "pendulum",
		Solver:   "rk4",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		TimeRate: DefaultTimeRate,
		Capacity: DefaultCapacity,
		InitState: InitStateConfig{
			Angle:    0.5,
			Position: 1.0,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML config, filling unset fields from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetInitState returns the initial state vector for the configured model.
func (c *Config) GetInitState() (a, b float64) {
	switch c.Model {
	case "spring":
		return c.InitState.Position, c.InitState.Velocity
	default:
		return c.InitState.Angle, c.InitState.Omega
	}
}
