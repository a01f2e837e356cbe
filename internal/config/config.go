package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/geom"
	"github.com/san-kum/vservo/internal/servo"
)

const (
	DefaultScenario   = "2d-points"
	DefaultDt         = 0.04
	DefaultIterations = 1500
	DefaultThreshold  = 1e-5
	DefaultLambda     = 1.0
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Scenario    string      `yaml:"scenario"`
	Scheme      string      `yaml:"scheme,omitempty"`
	Interaction string      `yaml:"interaction"`
	Inversion   string      `yaml:"inversion"`
	Dt          float64     `yaml:"dt"`
	Iterations  int         `yaml:"iterations"`
	Threshold   float64     `yaml:"threshold"`
	Tolerance   float64     `yaml:"tolerance,omitempty"`
	Seed        int64       `yaml:"seed"`
	Gain        GainConfig  `yaml:"gain"`
	Init        *PoseConfig `yaml:"init,omitempty"`
	Desired     *PoseConfig `yaml:"desired,omitempty"`
}

// GainConfig is a constant λ unless Adaptive is set.
type GainConfig struct {
	Lambda    float64 `yaml:"lambda"`
	Adaptive  bool    `yaml:"adaptive,omitempty"`
	Zero      float64 `yaml:"zero,omitempty"`
	Inf       float64 `yaml:"inf,omitempty"`
	SlopeZero float64 `yaml:"slope_zero,omitempty"`
}

// PoseConfig is a pose with the translation in meters and the θu rotation
// in degrees.
type PoseConfig struct {
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	Z  float64 `yaml:"z"`
	RX float64 `yaml:"rx"`
	RY float64 `yaml:"ry"`
	RZ float64 `yaml:"rz"`
}

// Vector returns (tx, ty, tz, θux, θuy, θuz) with the rotation in radians.
func (p *PoseConfig) Vector() []float64 {
	if p == nil {
		return nil
	}
	return []float64{p.X, p.Y, p.Z, geom.Rad(p.RX), geom.Rad(p.RY), geom.Rad(p.RZ)}
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    DefaultScenario,
		Interaction: servo.Current.String(),
		Inversion:   servo.PseudoInverse.String(),
		Dt:          DefaultDt,
		Iterations:  DefaultIterations,
		Threshold:   DefaultThreshold,
		Gain:        GainConfig{Lambda: DefaultLambda},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes the YAML file at path over c. Fields the file leaves
// out keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Init != nil {
		p := *c.Init
		cp.Init = &p
	}
	if c.Desired != nil {
		p := *c.Desired
		cp.Desired = &p
	}
	return &cp
}

func (c *Config) Validate() error {
	if c.Scenario == "" {
		return fmt.Errorf("%w: scenario is empty", ErrInvalid)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalid, c.Iterations)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("%w: threshold must not be negative, got %g", ErrInvalid, c.Threshold)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative, got %g", ErrInvalid, c.Tolerance)
	}
	if c.Gain.Adaptive {
		if c.Gain.Zero <= 0 || c.Gain.Inf <= 0 || c.Gain.SlopeZero <= 0 {
			return fmt.Errorf("%w: adaptive gain needs positive zero, inf and slope_zero", ErrInvalid)
		}
	} else if c.Gain.Lambda <= 0 {
		return fmt.Errorf("%w: lambda must be positive, got %g", ErrInvalid, c.Gain.Lambda)
	}
	if c.Scheme != "" {
		if _, err := servo.ParseScheme(c.Scheme); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if _, err := servo.ParseInteractionMode(c.Interaction); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := servo.ParseInversion(c.Inversion); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) BuildGain() servo.Gain {
	if c.Gain.Adaptive {
		return servo.NewAdaptiveGain(c.Gain.Zero, c.Gain.Inf, c.Gain.SlopeZero)
	}
	return servo.ConstantGain(c.Gain.Lambda)
}

// ToExperiment validates c and converts it to an experiment configuration.
func (c *Config) ToExperiment() (experiment.Config, error) {
	if err := c.Validate(); err != nil {
		return experiment.Config{}, err
	}

	scheme := servo.SchemeNone
	if c.Scheme != "" {
		scheme, _ = servo.ParseScheme(c.Scheme)
	}
	mode, _ := servo.ParseInteractionMode(c.Interaction)
	inv, _ := servo.ParseInversion(c.Inversion)

	return experiment.Config{
		Scenario:   c.Scenario,
		Scheme:     scheme,
		Mode:       mode,
		Inversion:  inv,
		Gain:       c.BuildGain(),
		Tolerance:  c.Tolerance,
		Init:       c.Init.Vector(),
		Desired:    c.Desired.Vector(),
		Dt:         c.Dt,
		Iterations: c.Iterations,
		Threshold:  c.Threshold,
	}, nil
}
