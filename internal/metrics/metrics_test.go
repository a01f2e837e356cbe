package metrics

import (
	"math"
	"testing"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	if m.Value() != 0 {
		t.Errorf("expected 0 before observations, got %f", m.Value())
	}

	m.Observe(nil, []float64{1, -2, 0.5}, 0)
	m.Observe(nil, []float64{-0.5, 0, 0}, 0.04)

	if got := m.Value(); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected mean effort 2.0, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear effort")
	}
}

func TestPeakVelocity(t *testing.T) {
	m := NewPeakVelocity()
	m.Observe(nil, []float64{0.1, -0.7}, 0)
	m.Observe(nil, []float64{0.3, 0.2}, 0.04)

	if got := m.Value(); got != 0.7 {
		t.Errorf("expected peak 0.7, got %f", got)
	}
}

func TestFinalError(t *testing.T) {
	m := NewFinalError()
	if !math.IsNaN(m.Value()) {
		t.Error("expected NaN before observations")
	}

	m.Observe([]float64{3, 4}, nil, 0)
	m.Observe([]float64{0.3, 0.4}, nil, 0.04)
	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected final error 0.5, got %f", got)
	}
}

func TestConvergence(t *testing.T) {
	tests := []struct {
		name  string
		norms []float64
		want  float64
	}{
		{"never", []float64{1, 0.5, 0.2}, -1},
		{"settles", []float64{1, 0.05, 0.01, 0.001}, 0.04},
		{"bounces", []float64{1, 0.05, 0.2, 0.01}, 0.12},
		{"leaves again", []float64{0.01, 0.01, 0.5}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConvergence(0.1)
			for i, n := range tt.norms {
				m.Observe([]float64{n}, nil, float64(i)*0.04)
			}
			if got := m.Value(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
