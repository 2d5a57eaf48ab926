package config

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": {
			Model: "pendulum", Solver: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: InitStateConfig{Angle: 0.2, Omega: 0.0},
		},
		"large": {
			Model: "pendulum", Solver: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: InitStateConfig{Angle: 2.5, Omega: 0.0},
		},
		"spinning": {
			Model: "pendulum", Solver: "rk4", Dt: 0.01, Duration: 30.0,
			InitState: InitStateConfig{Angle: 0.1, Omega: 8.0},
		},
		"damped": {
			Model: "pendulum", Solver: "rk4", Dt: 0.01, Duration: 30.0,
			InitState: InitStateConfig{Angle: 1.5, Omega: 0.0},
			Params:    ParamsConfig{Damping: 0.5},
		},
	},
	"spring": {
		"bounce": {
			Model: "spring", Solver: "rk4", Dt: 0.01, Duration: 20.0,
			InitState: InitStateConfig{Position: 2.0, Velocity: 0.0},
		},
		"fast": {
			Model: "spring", Solver: "rk4", Dt: 0.01, Duration: 10.0,
			InitState: InitStateConfig{Position: 1.0, Velocity: 5.0},
		},
		"stiff": {
			Model: "spring", Solver: "rk4", Dt: 0.001, Duration: 10.0,
			InitState: InitStateConfig{Position: 1.0, Velocity: 0.0},
			Params:    ParamsConfig{Stiffness: 100},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
