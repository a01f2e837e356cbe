package feature

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"
)

type DepthSelect uint32

const DepthLogZ DepthSelect = 1

func (DepthSelect) Kind() Kind     { return KindDepth }
func (s DepthSelect) Bits() uint32 { return uint32(s) }

// Depth is s = log(Z/Z*) for one point. The image coordinates (x, y) and
// Z enter the interaction matrix only.
type Depth struct {
	x, y, z float64
	logZ    float64
}

// NewDepth returns a depth feature with Z = 1 and log(Z/Z*) = 0, which is
// also the usual desired feature.
func NewDepth() *Depth {
	return &Depth{z: 1}
}

func (f *Depth) BuildFrom(x, y, z, logZOverZd float64) {
	f.x, f.y, f.z = x, y, z
	f.logZ = logZOverZd
}

// BuildFromDepths sets log(Z/Z*) from the current and desired depths.
func (f *Depth) BuildFromDepths(x, y, z, zd float64) {
	l := 0.0
	if z > 0 && zd > 0 {
		l = math.Log(z / zd)
	}
	f.BuildFrom(x, y, z, l)
}

func (f *Depth) LogZOverZd() float64 { return f.logZ }

func (f *Depth) Kind() Kind        { return KindDepth }
func (f *Depth) Dimension() int    { return 1 }
func (f *Depth) Values() []float64 { return []float64{f.logZ} }

func (f *Depth) Interaction(sel Selector) (*mat.Dense, error) {
	idx, err := indices(sel, KindDepth, 1)
	if err != nil {
		return nil, err
	}
	rows := [][6]float64{{0, 0, -invDepth(f.z), -f.y, f.x, 0}}
	return selectRows(rows, idx), nil
}

func (f *Depth) Error(desired Feature, sel Selector) (*mat.VecDense, error) {
	return difference(f, desired, sel)
}

func (f *Depth) Print(w io.Writer, sel Selector) error {
	return printValues(w, "depth", []string{"logZ/Zd"}, f.Values(), sel, KindDepth,
		fmt.Sprintf("x=%.6g y=%.6g Z=%.6g", f.x, f.y, f.z))
}

func (f *Depth) String() string { return render(f) }
