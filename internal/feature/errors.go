package feature

import "errors"

var (
	// ErrNilFeature indicates a missing current or desired feature.
	ErrNilFeature = errors.New("feature: nil feature")

	// ErrKindMismatch indicates an error requested between different kinds.
	ErrKindMismatch = errors.New("feature: current and desired kinds differ")

	// ErrDimensionMismatch indicates features of one kind with different sizes.
	ErrDimensionMismatch = errors.New("feature: dimension mismatch")

	// ErrFrameMismatch indicates translation or rotation features expressed
	// in different frames.
	ErrFrameMismatch = errors.New("feature: frame mismatch")

	// ErrSelectorKind indicates a selector built for another kind.
	ErrSelectorKind = errors.New("feature: selector belongs to another kind")

	// ErrSelectorRange indicates selected components beyond the dimension.
	ErrSelectorRange = errors.New("feature: selector exceeds feature dimension")

	// ErrEmptySelection indicates a selector with no component set.
	ErrEmptySelection = errors.New("feature: empty selection")
)
