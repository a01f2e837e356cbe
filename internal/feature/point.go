package feature

import (
	"fmt"
	"io"

	"github.com/san-kum/vservo/internal/geom"
	"gonum.org/v1/gonum/mat"
)

type PointSelect uint32

const (
	PointX PointSelect = 1 << iota
	PointY
)

func (PointSelect) Kind() Kind     { return KindPoint }
func (s PointSelect) Bits() uint32 { return uint32(s) }

// Point is a 2D image point s = (x, y) in normalized coordinates. The
// depth Z only enters the interaction matrix.
type Point struct {
	x, y float64
	z    float64
}

// NewPoint returns a point at the image origin with Z = 1.
func NewPoint() *Point {
	return &Point{z: 1}
}

func (p *Point) BuildFrom(x, y, z float64) {
	p.x, p.y, p.z = x, y, z
}

// BuildFromPose projects the object-frame point o through cMo.
func (p *Point) BuildFromPose(cMo geom.Homogeneous, o geom.Vec3) {
	c := cMo.Apply(o)
	p.z = c[2]
	p.x = c[0] * invDepth(c[2])
	p.y = c[1] * invDepth(c[2])
}

func (p *Point) SetX(x float64) { p.x = x }
func (p *Point) SetY(y float64) { p.y = y }
func (p *Point) SetZ(z float64) { p.z = z }

func (p *Point) X() float64 { return p.x }
func (p *Point) Y() float64 { return p.y }
func (p *Point) Z() float64 { return p.z }

func (p *Point) Kind() Kind        { return KindPoint }
func (p *Point) Dimension() int    { return 2 }
func (p *Point) Values() []float64 { return []float64{p.x, p.y} }

func (p *Point) Interaction(sel Selector) (*mat.Dense, error) {
	idx, err := indices(sel, KindPoint, 2)
	if err != nil {
		return nil, err
	}
	x, y, iz := p.x, p.y, invDepth(p.z)
	rows := [][6]float64{
		{-iz, 0, x * iz, x * y, -(1 + x*x), y},
		{0, -iz, y * iz, 1 + y*y, -x * y, -x},
	}
	return selectRows(rows, idx), nil
}

func (p *Point) Error(desired Feature, sel Selector) (*mat.VecDense, error) {
	return difference(p, desired, sel)
}

func (p *Point) Print(w io.Writer, sel Selector) error {
	return printValues(w, "point", []string{"x", "y"}, p.Values(), sel, KindPoint, fmt.Sprintf("Z=%.6g", p.z))
}

func (p *Point) String() string { return render(p) }
