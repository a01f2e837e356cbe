package config

import "sort"

func preset(scenario string, mut func(c *Config)) *Config {
	c := DefaultConfig()
	c.Scenario = scenario
	if mut != nil {
		mut(c)
	}
	return c
}

var Presets = map[string]map[string]*Config{
	"2d-points": {
		"default": preset("2d-points", nil),
		"desired-l": preset("2d-points", func(c *Config) {
			c.Interaction = "desired"
		}),
		"mean-l": preset("2d-points", func(c *Config) {
			c.Interaction = "mean"
		}),
		"adaptive": preset("2d-points", func(c *Config) {
			c.Gain = GainConfig{Adaptive: true, Zero: 4, Inf: 0.4, SlopeZero: 30}
		}),
		"joints": preset("2d-points", func(c *Config) {
			c.Scheme = "eye-in-hand-cVe-eJe"
		}),
	},
	"3d-cmcd": {
		"default": preset("3d-cmcd", nil),
		"slow": preset("3d-cmcd", func(c *Config) {
			c.Gain.Lambda = 0.1
			c.Iterations = 3000
		}),
	},
	"3d-cdmc": {
		"default": preset("3d-cdmc", nil),
		"large-rotation": preset("3d-cdmc", func(c *Config) {
			c.Init = &PoseConfig{X: 0.2, Y: -0.1, Z: 1.5, RX: 30, RY: -20, RZ: 120}
		}),
		"transpose": preset("3d-cdmc", func(c *Config) {
			c.Inversion = "transpose"
		}),
	},
	"2.5d": {
		"default": preset("2.5d", nil),
		"close": preset("2.5d", func(c *Config) {
			c.Init = &PoseConfig{X: 0.05, Y: -0.05, Z: 0.6, RX: 5, RY: 5, RZ: 20}
		}),
	},
	"pan-tilt": {
		"default": preset("pan-tilt", nil),
		"wide": preset("pan-tilt", func(c *Config) {
			c.Init = &PoseConfig{X: 1, Y: 0.9, Z: -0.4}
			c.Gain.Lambda = 0.5
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, name string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
