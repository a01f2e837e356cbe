package servo

import (
	"fmt"
	"math"
)

// Gain yields λ from the infinity norm of the current error.
type Gain interface {
	Value(errNorm float64) float64
}

// ConstantGain is a fixed λ.
type ConstantGain float64

func (g ConstantGain) Value(float64) float64 { return float64(g) }

func (g ConstantGain) String() string { return fmt.Sprintf("λ=%g", float64(g)) }

// AdaptiveGain saturates smoothly between Zero (λ at zero error) and Inf
// (λ at large error):
//
//	λ(x) = (Zero - Inf) exp(-SlopeZero x / (Zero - Inf)) + Inf
//
// SlopeZero is the slope of λ at x = 0.
type AdaptiveGain struct {
	Zero      float64
	Inf       float64
	SlopeZero float64
}

// NewAdaptiveGain returns the law with the given gains and slope.
func NewAdaptiveGain(zero, inf, slopeZero float64) AdaptiveGain {
	return AdaptiveGain{Zero: zero, Inf: inf, SlopeZero: slopeZero}
}

func (g AdaptiveGain) Value(x float64) float64 {
	a := g.Zero - g.Inf
	if a == 0 {
		return g.Inf
	}
	return a*math.Exp(-g.SlopeZero*x/a) + g.Inf
}

func (g AdaptiveGain) String() string {
	return fmt.Sprintf("λ(0)=%g λ(∞)=%g λ'(0)=%g", g.Zero, g.Inf, g.SlopeZero)
}
