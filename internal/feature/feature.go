package feature

import (
	"fmt"
	"io"
	"math/bits"
	"strings"

	"gonum.org/v1/gonum/mat"
)

type Kind int

const (
	KindAny Kind = iota
	KindPoint
	KindPoint3D
	KindTranslation
	KindThetaU
	KindDepth
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindPoint:
		return "point"
	case KindPoint3D:
		return "point3d"
	case KindTranslation:
		return "translation"
	case KindThetaU:
		return "thetau"
	case KindDepth:
		return "depth"
	case KindGeneric:
		return "generic"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Feature is the contract shared by every feature kind.
type Feature interface {
	Kind() Kind
	// Dimension is the number of scalar components; fixed per instance.
	Dimension() int
	// Values returns a copy of the current components.
	Values() []float64
	// Interaction returns the k×6 interaction matrix of the selected
	// components, k being the number of selected components.
	Interaction(sel Selector) (*mat.Dense, error)
	// Error returns s - s* over the selected components.
	Error(desired Feature, sel Selector) (*mat.VecDense, error)
	// Print writes the selected components for diagnostics.
	Print(w io.Writer, sel Selector) error
	String() string
}

// Selector is a kind-scoped bitmask over feature components.
type Selector interface {
	Kind() Kind
	Bits() uint32
}

type allSelector struct{}

func (allSelector) Kind() Kind   { return KindAny }
func (allSelector) Bits() uint32 { return ^uint32(0) }

// All selects every component of a feature of any kind.
var All Selector = allSelector{}

// SelectComponent returns the selector of component i for a kind's
// selector type, e.g. SelectComponent[GenericSelect](4). Valid indices are
// 0 to 31; any other index gives the empty selector, which AddFeature
// rejects with ErrEmptySelection.
func SelectComponent[T interface {
	~uint32
	Selector
}](i int) T {
	if i < 0 || i >= 32 {
		return 0
	}
	return T(1) << i
}

// Count returns the number of components sel picks from a feature of
// dimension dim.
func Count(sel Selector, dim int) int {
	if sel == nil || sel.Kind() == KindAny {
		return dim
	}
	return bits.OnesCount32(sel.Bits() & fullMask(dim))
}

func fullMask(dim int) uint32 {
	if dim >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<dim - 1
}

// indices resolves sel against a feature of the given kind and dimension.
func indices(sel Selector, kind Kind, dim int) ([]int, error) {
	mask := fullMask(dim)
	if sel != nil && sel.Kind() != KindAny {
		if sel.Kind() != kind {
			return nil, fmt.Errorf("%w: %s selector on %s feature", ErrSelectorKind, sel.Kind(), kind)
		}
		b := sel.Bits()
		if b&^mask != 0 {
			return nil, fmt.Errorf("%w: mask %#x, dimension %d", ErrSelectorRange, b, dim)
		}
		mask = b
	}
	if mask == 0 {
		return nil, ErrEmptySelection
	}

	idx := make([]int, 0, bits.OnesCount32(mask))
	for i := 0; i < dim; i++ {
		if mask&(1<<i) != 0 {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

func selectRows(rows [][6]float64, idx []int) *mat.Dense {
	out := mat.NewDense(len(idx), 6, nil)
	for r, i := range idx {
		out.SetRow(r, rows[i][:])
	}
	return out
}

// difference computes s - s* after checking that both features can be
// compared.
func difference(cur, desired Feature, sel Selector) (*mat.VecDense, error) {
	if cur == nil || desired == nil {
		return nil, ErrNilFeature
	}
	if cur.Kind() != desired.Kind() {
		return nil, fmt.Errorf("%w: %s vs %s", ErrKindMismatch, cur.Kind(), desired.Kind())
	}
	if cur.Dimension() != desired.Dimension() {
		return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, cur.Dimension(), desired.Dimension())
	}
	idx, err := indices(sel, cur.Kind(), cur.Dimension())
	if err != nil {
		return nil, err
	}

	s, sd := cur.Values(), desired.Values()
	e := mat.NewVecDense(len(idx), nil)
	for r, i := range idx {
		e.SetVec(r, s[i]-sd[i])
	}
	return e, nil
}

func printValues(w io.Writer, name string, labels []string, values []float64, sel Selector, kind Kind, extra string) error {
	idx, err := indices(sel, kind, len(values))
	if err != nil {
		return err
	}
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		parts = append(parts, fmt.Sprintf("%s=%.6g", labels[i], values[i]))
	}
	line := name + ": " + strings.Join(parts, " ")
	if extra != "" {
		line += " (" + extra + ")"
	}
	_, err = fmt.Fprintln(w, line)
	return err
}

func render(f Feature) string {
	var b strings.Builder
	if err := f.Print(&b, All); err != nil {
		return f.Kind().String()
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// invDepth returns 1/z, or 0 for a zero depth so that the translational
// coupling vanishes instead of overflowing.
func invDepth(z float64) float64 {
	if z == 0 {
		return 0
	}
	return 1 / z
}
