package analysis

import (
	"math"

	"github.com/san-kum/vservo/internal/sim"
)

// Report summarizes the transient of one run.
type Report struct {
	Samples      int
	DecayRate    float64
	DecayFit     float64
	Monotonicity float64
	Overshoot    []float64
	MaxOvershoot float64
	// Frequency is the dominant oscillation of the largest velocity
	// component, in Hz.
	Frequency float64
}

func Analyze(r *sim.Result, dt float64) Report {
	rep := Report{Samples: len(r.Norms)}
	rep.DecayRate, rep.DecayFit = DecayRate(r.Times, r.Norms)
	rep.Monotonicity = Monotonicity(r.Norms)
	rep.Overshoot = Overshoot(r.Errors)
	for _, o := range rep.Overshoot {
		rep.MaxOvershoot = math.Max(rep.MaxOvershoot, o)
	}

	if len(r.Velocities) > 0 {
		best, peak := 0, 0.0
		for j := range r.Velocities[0] {
			col := Column(r.Velocities, j)
			for _, v := range col {
				if math.Abs(v) > peak {
					best, peak = j, math.Abs(v)
				}
			}
		}
		rep.Frequency, _ = DominantFrequency(Column(r.Velocities, best), dt)
	}
	return rep
}

// Column extracts component j of every sample, zero where missing.
func Column(samples [][]float64, j int) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		if j < len(s) {
			out[i] = s[j]
		}
	}
	return out
}
