package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVelocity indicates a control law that produced NaN or Inf.
	ErrInvalidVelocity = errors.New("sim: invalid velocity (NaN or Inf detected)")

	// ErrInvalidConfig indicates a non-positive period or iteration count.
	ErrInvalidConfig = errors.New("sim: invalid loop configuration")
)

// StepError wraps a failure with the iteration it happened in.
type StepError struct {
	Iteration int
	Time      float64
	Stage     string
	Wrapped   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sim: %s at iteration %d (t=%.4f): %v", e.Stage, e.Iteration, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
