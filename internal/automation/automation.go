package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vservo/internal/config"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/sim"
)

// Batch is a scripted sequence of runs loaded from YAML.
type Batch struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run of a batch. Fields left out of the file keep the
// values of config.DefaultConfig.
type Step struct {
	config.Config `yaml:",inline"`
	SaveAs        string `yaml:"save_as,omitempty"`
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	type plain Step
	p := plain{Config: *config.DefaultConfig()}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Step(p)
	return nil
}

// LoadBatch loads a batch from a YAML file
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	return &batch, nil
}

// StepResult pairs a batch step with its outcome.
type StepResult struct {
	Step   Step
	Result *sim.Result
}

// RunBatch executes the steps in order and stops at the first failure,
// returning what completed.
func RunBatch(ctx context.Context, batch *Batch, registry *experiment.Registry, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(batch.Steps))

	for i, step := range batch.Steps {
		logger.Info("running step", "step", i+1, "of", len(batch.Steps), "scenario", step.Scenario)

		expCfg, err := step.ToExperiment()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(expCfg)
		exp.SetLogger(logger)
		if err := exp.Setup(registry, registry.DefaultMetrics(expCfg.Threshold*10)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Result: result})
	}

	return results, nil
}

// ensemble runs one experiment per configuration in parallel.
func ensemble(ctx context.Context, registry *experiment.Registry, cfgs []experiment.Config, loop sim.Config) ([]*sim.Result, error) {
	ens := sim.NewEnsemble(func(idx int) (*sim.Simulator, error) {
		exp := experiment.New(cfgs[idx])
		if err := exp.Setup(registry, registry.DefaultMetrics(loop.Threshold*10)); err != nil {
			return nil, fmt.Errorf("run %d: %w", idx, err)
		}
		return exp.Simulator(), nil
	}, len(cfgs))
	return ens.Run(ctx, loop)
}

func loopConfig(c experiment.Config) sim.Config {
	return sim.Config{Dt: c.Dt, Iterations: c.Iterations, Threshold: c.Threshold}
}
