package metrics

import "math"

// FinalError is the Euclidean norm of the last observed error.
type FinalError struct {
	last    float64
	samples int
}

func NewFinalError() *FinalError { return &FinalError{} }

func (f *FinalError) Name() string { return "final_error" }

func (f *FinalError) Observe(e, v []float64, t float64) {
	f.last = norm(e)
	f.samples++
}

func (f *FinalError) Value() float64 {
	if f.samples == 0 {
		return math.NaN()
	}
	return f.last
}

func (f *FinalError) Reset() {
	f.last = 0
	f.samples = 0
}

// Convergence reports the time after which the error norm stayed below
// the threshold, or -1 if it never settled.
type Convergence struct {
	name      string
	threshold float64
	since     float64
	settled   bool
}

func NewConvergence(threshold float64) *Convergence {
	return &Convergence{
		name:      "convergence_time",
		threshold: threshold,
	}
}

func (c *Convergence) Name() string {
	return c.name
}

func (c *Convergence) Observe(e, v []float64, t float64) {
	if norm(e) < c.threshold {
		if !c.settled {
			c.since = t
			c.settled = true
		}
		return
	}
	c.settled = false
}

func (c *Convergence) Value() float64 {
	if !c.settled {
		return -1
	}
	return c.since
}

func (c *Convergence) Reset() {
	c.since = 0
	c.settled = false
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
