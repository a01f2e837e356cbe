package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/vservo/internal/config"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/servo"
)

// GainSweep runs the same configuration for evenly spaced constant gains.
type GainSweep struct {
	Base  *config.Config
	Min   float64
	Max   float64
	Steps int
}

type SweepResult struct {
	Lambda          float64
	Iterations      int
	Converged       bool
	FinalNorm       float64
	ConvergenceTime float64
	Effort          float64
}

func RunGainSweep(ctx context.Context, sweep *GainSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Steps < 1 || sweep.Min <= 0 || sweep.Max < sweep.Min {
		return nil, fmt.Errorf("%w: gain sweep [%g, %g] in %d steps", config.ErrInvalid, sweep.Min, sweep.Max, sweep.Steps)
	}
	base, err := sweep.Base.ToExperiment()
	if err != nil {
		return nil, err
	}

	lambdas := make([]float64, sweep.Steps)
	cfgs := make([]experiment.Config, sweep.Steps)
	for i := range lambdas {
		lambdas[i] = sweep.Min
		if sweep.Steps > 1 {
			lambdas[i] += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
		}
		cfgs[i] = base
		cfgs[i].Gain = servo.ConstantGain(lambdas[i])
	}

	runs, err := ensemble(ctx, registry, cfgs, loopConfig(base))
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{
			Lambda:          lambdas[i],
			Iterations:      r.Iterations,
			Converged:       r.Converged,
			FinalNorm:       r.FinalNorm(),
			ConvergenceTime: r.Metrics["convergence_time"],
			Effort:          r.Metrics["control_effort"],
		}
	}
	return results, nil
}
