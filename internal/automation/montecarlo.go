package automation

import (
	"context"
	"math/rand"
	"time"

	"github.com/san-kum/vservo/internal/config"
	"github.com/san-kum/vservo/internal/experiment"
	"github.com/san-kum/vservo/internal/geom"
)

// MonteCarloConfig perturbs the initial pose of a run uniformly within
// ±Translation meters and ±Rotation degrees per axis.
type MonteCarloConfig struct {
	Base        *config.Config
	Trials      int
	Translation float64
	Rotation    float64
	Seed        int64
}

type Trial struct {
	ID         int
	Init       []float64
	Converged  bool
	Iterations int
	FinalNorm  float64
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]Trial, error) {
	base, err := cfg.Base.ToExperiment()
	if err != nil {
		return nil, err
	}
	info, _, err := registry.Get(base.Scenario)
	if err != nil {
		return nil, err
	}
	nominal := info.Init[:]
	if len(base.Init) == 6 {
		nominal = base.Init
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cfgs := make([]experiment.Config, cfg.Trials)
	for i := range cfgs {
		init := make([]float64, 6)
		for j, v := range nominal {
			spread := cfg.Translation
			if j >= 3 {
				spread = geom.Rad(cfg.Rotation)
			}
			init[j] = v + (rng.Float64()-0.5)*2*spread
		}
		cfgs[i] = base
		cfgs[i].Init = init
	}

	runs, err := ensemble(ctx, registry, cfgs, loopConfig(base))
	if err != nil {
		return nil, err
	}

	trials := make([]Trial, len(runs))
	for i, r := range runs {
		trials[i] = Trial{
			ID:         i,
			Init:       cfgs[i].Init,
			Converged:  r.Converged,
			Iterations: r.Iterations,
			FinalNorm:  r.FinalNorm(),
		}
	}
	return trials, nil
}

// MonteCarloStats counts converged trials and averages their iterations.
func MonteCarloStats(trials []Trial) (converged, failed int, meanIterations float64) {
	sum := 0
	for _, t := range trials {
		if t.Converged {
			converged++
			sum += t.Iterations
		} else {
			failed++
		}
	}
	if converged > 0 {
		meanIterations = float64(sum) / float64(converged)
	}
	return
}
