package main

import (
	"fmt"

	"github.com/san-kum/vservo/internal/config"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/spf13/cobra"
)

// resolveConfig layers the preset, the config file and the flags set on
// the command line, in that order. A scenario argument wins over the file.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scenario := config.DefaultScenario
	if len(args) > 0 {
		scenario = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Scenario = scenario
	if preset != "" {
		cfg = config.GetPreset(scenario, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
	}
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			cfg.Scenario = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("scheme") {
		cfg.Scheme = scheme
	}
	if flags.Changed("interaction") {
		cfg.Interaction = interaction
	}
	if flags.Changed("inversion") {
		cfg.Inversion = inversion
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("lambda") {
		cfg.Gain = config.GainConfig{Lambda: lambda}
	}
	if flags.Changed("adaptive") {
		if len(adaptive) != 3 {
			return nil, fmt.Errorf("--adaptive takes lambda0,lambdaInf,slope0, got %d values", len(adaptive))
		}
		cfg.Gain = config.GainConfig{Adaptive: true, Zero: adaptive[0], Inf: adaptive[1], SlopeZero: adaptive[2]}
	}
	if flags.Changed("init") {
		p, err := poseFlag("init", initPose)
		if err != nil {
			return nil, err
		}
		cfg.Init = p
	}
	if flags.Changed("desired") {
		p, err := poseFlag("desired", desiredPose)
		if err != nil {
			return nil, err
		}
		cfg.Desired = p
	}
	return cfg, cfg.Validate()
}

func poseFlag(name string, v []float64) (*config.PoseConfig, error) {
	if len(v) != 6 {
		return nil, fmt.Errorf("--%s takes x,y,z,rx,ry,rz, got %d values", name, len(v))
	}
	return &config.PoseConfig{X: v[0], Y: v[1], Z: v[2], RX: v[3], RY: v[4], RZ: v[5]}, nil
}

// newExperiment resolves the configuration and sets up its experiment
// with the default metrics.
func newExperiment(cmd *cobra.Command, args []string) (*config.Config, *experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	expCfg, err := cfg.ToExperiment()
	if err != nil {
		return nil, nil, err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(expCfg)
	exp.SetLogger(logger)
	if err := exp.Setup(registry, registry.DefaultMetrics(expCfg.Threshold*10)); err != nil {
		return nil, nil, err
	}
	return cfg, exp, nil
}
