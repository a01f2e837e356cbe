package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DecayRate fits log|e| = a - rate*t by least squares over the samples
// with a positive norm. r2 is the coefficient of determination of the fit.
// Fewer than two usable samples give zero for both.
func DecayRate(times, norms []float64) (rate, r2 float64) {
	n := min(len(times), len(norms))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if norms[i] > 0 && !math.IsInf(norms[i], 0) {
			xs = append(xs, times[i])
			ys = append(ys, math.Log(norms[i]))
		}
	}
	if len(xs) < 2 || xs[0] == xs[len(xs)-1] {
		return 0, 0
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return -beta, stat.RSquared(xs, ys, nil, alpha, beta)
}

// Monotonicity is the fraction of steps along which the norm does not
// increase.
func Monotonicity(norms []float64) float64 {
	if len(norms) < 2 {
		return 1
	}
	down := 0
	for i := 1; i < len(norms); i++ {
		if norms[i] <= norms[i-1] {
			down++
		}
	}
	return float64(down) / float64(len(norms)-1)
}

// Overshoot returns, per error component, how far the component went past
// zero on the opposite side of its initial value, relative to that
// initial value. Components starting at zero report zero.
func Overshoot(errors [][]float64) []float64 {
	if len(errors) == 0 {
		return nil
	}
	out := make([]float64, len(errors[0]))
	for j, e0 := range errors[0] {
		if e0 == 0 {
			continue
		}
		for _, e := range errors[1:] {
			if j >= len(e) {
				continue
			}
			if past := -e[j] / e0; past > out[j] {
				out[j] = past
			}
		}
	}
	return out
}
