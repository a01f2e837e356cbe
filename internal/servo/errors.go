package servo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFeatures indicates a control law requested with no registered pair.
	ErrNoFeatures = errors.New("servo: no features registered")

	// ErrNoScheme indicates a control law requested before SetServo.
	ErrNoScheme = errors.New("servo: control scheme not set")

	// ErrMissingJacobian indicates a scheme whose frame-change matrices were
	// not provided.
	ErrMissingJacobian = errors.New("servo: frame-change jacobian not set")

	// ErrUnknownHandle indicates a handle that is not registered.
	ErrUnknownHandle = errors.New("servo: unknown feature handle")

	// ErrNotComputed indicates a query that needs a prior control law.
	ErrNotComputed = errors.New("servo: control law not computed yet")

	// ErrDimension indicates an operand of the wrong size.
	ErrDimension = errors.New("servo: dimension mismatch")
)

// PairError reports which registration failed during a control law.
type PairError struct {
	Handle  Handle
	Wrapped error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("servo: feature pair %d: %v", e.Handle, e.Wrapped)
}

func (e *PairError) Unwrap() error {
	return e.Wrapped
}
