package sim

import (
	"context"
	"fmt"
	"log/slog"
)

// Simulator closes the loop between a sensor, a controller and an
// actuator: sense, compute, actuate, once per iteration.
type Simulator struct {
	sensor     Sensor
	controller Controller
	actuator   Actuator
	metrics    []Metric
	observers  []Observer
	logger     *slog.Logger
}

func New(sensor Sensor, controller Controller, actuator Actuator) *Simulator {
	return &Simulator{
		sensor:     sensor,
		controller: controller,
		actuator:   actuator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Step runs one iteration at time t and returns what it observed. The
// velocity is applied only when it is finite.
func (s *Simulator) Step(iter int, t, dt float64) (Sample, error) {
	if err := s.sensor.Sense(t); err != nil {
		return Sample{}, &StepError{Iteration: iter, Time: t, Stage: "sense", Wrapped: err}
	}
	v, err := s.controller.ComputeControlLaw()
	if err != nil {
		return Sample{}, &StepError{Iteration: iter, Time: t, Stage: "control", Wrapped: err}
	}

	e := values(s.controller.Error())
	sample := Sample{
		Iteration: iter,
		Time:      t,
		Error:     e,
		Velocity:  values(v),
		Norm:      norm(e),
	}
	if !finite(sample.Velocity) {
		return sample, &StepError{Iteration: iter, Time: t, Stage: "control", Wrapped: ErrInvalidVelocity}
	}

	if err := s.actuator.SetVelocity(v, dt); err != nil {
		return sample, &StepError{Iteration: iter, Time: t, Stage: "actuate", Wrapped: err}
	}
	return sample, nil
}

// Run iterates until cfg.Iterations, convergence below cfg.Threshold, an
// error or context cancellation. The partial result is returned in every
// case.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:      make([]float64, 0, cfg.Iterations),
		Errors:     make([][]float64, 0, cfg.Iterations),
		Velocities: make([][]float64, 0, cfg.Iterations),
		Norms:      make([]float64, 0, cfg.Iterations),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	defer s.collect(result)

	t := 0.0
	for i := 0; i < cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sample, err := s.Step(i, t, cfg.Dt)
		if err != nil {
			return result, err
		}

		for _, m := range s.metrics {
			m.Observe(sample.Error, sample.Velocity, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}

		result.Times = append(result.Times, t)
		result.Errors = append(result.Errors, sample.Error)
		result.Velocities = append(result.Velocities, sample.Velocity)
		result.Norms = append(result.Norms, sample.Norm)
		result.Iterations++
		t += cfg.Dt

		if sample.Norm < cfg.Threshold {
			result.Converged = true
			s.logger.Debug("servo loop converged", "iteration", i, "norm", sample.Norm)
			return result, nil
		}
	}

	s.logger.Debug("servo loop stopped", "iterations", result.Iterations, "norm", result.FinalNorm())
	return result, nil
}

func (s *Simulator) collect(r *Result) {
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback runs the loop and hands every sample to callback, which
// returns false to stop. It keeps no history.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for i := 0; i < cfg.Iterations; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sample, err := s.Step(i, t, cfg.Dt)
		if err != nil {
			return err
		}
		if !callback(sample) || sample.Norm < cfg.Threshold {
			return nil
		}
		t += cfg.Dt
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfig, cfg.Iterations)
	}
	return nil
}
