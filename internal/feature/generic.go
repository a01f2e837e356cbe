package feature

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

type GenericSelect uint32

func (GenericSelect) Kind() Kind     { return KindGeneric }
func (s GenericSelect) Bits() uint32 { return uint32(s) }

// MaxGenericDimension bounds the component count addressable by a selector.
const MaxGenericDimension = 32

// Generic is a feature of arbitrary dimension whose interaction matrix is
// supplied by the caller.
type Generic struct {
	s []float64
	l *mat.Dense
}

// NewGeneric returns a zero feature of dimension n. It panics when n is
// outside [1, MaxGenericDimension].
func NewGeneric(n int) *Generic {
	if n < 1 || n > MaxGenericDimension {
		panic(fmt.Sprintf("feature: generic dimension %d out of range", n))
	}
	return &Generic{
		s: make([]float64, n),
		l: mat.NewDense(n, 6, nil),
	}
}

func (f *Generic) SetValues(s []float64) error {
	if len(s) != len(f.s) {
		return fmt.Errorf("%w: %d values for dimension %d", ErrDimensionMismatch, len(s), len(f.s))
	}
	copy(f.s, s)
	return nil
}

// SetInteraction stores a copy of the n×6 interaction matrix.
func (f *Generic) SetInteraction(l mat.Matrix) error {
	r, c := l.Dims()
	if r != len(f.s) || c != 6 {
		return fmt.Errorf("%w: interaction %dx%d for dimension %d", ErrDimensionMismatch, r, c, len(f.s))
	}
	f.l.Copy(l)
	return nil
}

func (f *Generic) Kind() Kind     { return KindGeneric }
func (f *Generic) Dimension() int { return len(f.s) }

func (f *Generic) Values() []float64 {
	out := make([]float64, len(f.s))
	copy(out, f.s)
	return out
}

func (f *Generic) Interaction(sel Selector) (*mat.Dense, error) {
	idx, err := indices(sel, KindGeneric, len(f.s))
	if err != nil {
		return nil, err
	}
	rows := make([][6]float64, len(f.s))
	for i := range rows {
		mat.Row(rows[i][:], i, f.l)
	}
	return selectRows(rows, idx), nil
}

func (f *Generic) Error(desired Feature, sel Selector) (*mat.VecDense, error) {
	return difference(f, desired, sel)
}

func (f *Generic) Print(w io.Writer, sel Selector) error {
	labels := make([]string, len(f.s))
	for i := range labels {
		labels[i] = fmt.Sprintf("s%d", i)
	}
	return printValues(w, "generic", labels, f.Values(), sel, KindGeneric, "")
}

func (f *Generic) String() string { return render(f) }
