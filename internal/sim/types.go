package sim

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sensor refreshes the current features from the plant at time t.
type Sensor interface {
	Sense(t float64) error
}

type SensorFunc func(t float64) error

func (f SensorFunc) Sense(t float64) error { return f(t) }

// Controller computes one velocity per iteration. *servo.Task satisfies it.
type Controller interface {
	ComputeControlLaw() (*mat.VecDense, error)
	Error() *mat.VecDense
}

// Actuator applies a velocity to the plant for dt seconds.
type Actuator interface {
	SetVelocity(v mat.Vector, dt float64) error
}

type Metric interface {
	Name() string
	Observe(e, v []float64, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type ObserverFunc func(s Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

// Sample is one iteration of the loop as seen by observers.
type Sample struct {
	Iteration int
	Time      float64
	Error     []float64
	Velocity  []float64
	Norm      float64
}

type Config struct {
	Dt         float64
	Iterations int
	// Threshold stops the loop once the error norm drops below it. Zero
	// runs every iteration.
	Threshold float64
}

func DefaultConfig() Config {
	return Config{
		Dt:         0.04,
		Iterations: 1500,
		Threshold:  1e-5,
	}
}

type Result struct {
	Times      []float64
	Errors     [][]float64
	Velocities [][]float64
	Norms      []float64
	Iterations int
	Converged  bool
	Metrics    map[string]float64
}

// FinalNorm is the error norm of the last iteration, or NaN when nothing
// ran.
func (r *Result) FinalNorm() float64 {
	if len(r.Norms) == 0 {
		return math.NaN()
	}
	return r.Norms[len(r.Norms)-1]
}

func values(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
