package feature

import (
	"io"

	"github.com/san-kum/vservo/internal/geom"
	"gonum.org/v1/gonum/mat"
)

type Point3DSelect uint32

const (
	Point3DX Point3DSelect = 1 << iota
	Point3DY
	Point3DZ
)

func (Point3DSelect) Kind() Kind     { return KindPoint3D }
func (s Point3DSelect) Bits() uint32 { return uint32(s) }

// Point3D is a point (X, Y, Z) expressed in the camera frame.
type Point3D struct {
	p geom.Vec3
}

// NewPoint3D returns the point (0, 0, 1).
func NewPoint3D() *Point3D {
	return &Point3D{p: geom.Vec3{0, 0, 1}}
}

func (f *Point3D) BuildFrom(x, y, z float64) {
	f.p = geom.Vec3{x, y, z}
}

// BuildFromPose expresses the object-frame point o in the camera frame.
func (f *Point3D) BuildFromPose(cMo geom.Homogeneous, o geom.Vec3) {
	f.p = cMo.Apply(o)
}

func (f *Point3D) Point() geom.Vec3 { return f.p }

func (f *Point3D) Kind() Kind        { return KindPoint3D }
func (f *Point3D) Dimension() int    { return 3 }
func (f *Point3D) Values() []float64 { return []float64{f.p[0], f.p[1], f.p[2]} }

// Interaction is [-I3 [X]x].
func (f *Point3D) Interaction(sel Selector) (*mat.Dense, error) {
	idx, err := indices(sel, KindPoint3D, 3)
	if err != nil {
		return nil, err
	}
	x, y, z := f.p[0], f.p[1], f.p[2]
	rows := [][6]float64{
		{-1, 0, 0, 0, -z, y},
		{0, -1, 0, z, 0, -x},
		{0, 0, -1, -y, x, 0},
	}
	return selectRows(rows, idx), nil
}

func (f *Point3D) Error(desired Feature, sel Selector) (*mat.VecDense, error) {
	return difference(f, desired, sel)
}

func (f *Point3D) Print(w io.Writer, sel Selector) error {
	return printValues(w, "point3d", []string{"X", "Y", "Z"}, f.Values(), sel, KindPoint3D, "")
}

func (f *Point3D) String() string { return render(f) }
