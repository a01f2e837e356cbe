package feature

import (
	"fmt"
	"io"

	"github.com/san-kum/vservo/internal/geom"
	"gonum.org/v1/gonum/mat"
)

type ThetaUSelect uint32

const (
	ThetaUX ThetaUSelect = 1 << iota
	ThetaUY
	ThetaUZ
)

func (ThetaUSelect) Kind() Kind     { return KindThetaU }
func (s ThetaUSelect) Bits() uint32 { return uint32(s) }

// RotationFrame names which rotation the θu feature holds.
type RotationFrame int

const (
	// CdRc is the rotation from the desired to the current camera frame.
	CdRc RotationFrame = iota
	// CRcd is the rotation from the current to the desired camera frame.
	CRcd
)

func (f RotationFrame) String() string {
	switch f {
	case CdRc:
		return "cdRc"
	case CRcd:
		return "cRcd"
	default:
		return fmt.Sprintf("frame(%d)", int(f))
	}
}

// ThetaU is the axis-angle representation θu of a 3D rotation.
type ThetaU struct {
	frame RotationFrame
	tu    geom.ThetaU
}

func NewThetaU(frame RotationFrame) *ThetaU {
	return &ThetaU{frame: frame}
}

// BuildFrom extracts θu from the rotation part of m.
func (f *ThetaU) BuildFrom(m geom.Homogeneous) {
	f.tu = m.R.ThetaU()
}

func (f *ThetaU) BuildFromRotation(r geom.Rotation) {
	f.tu = r.ThetaU()
}

func (f *ThetaU) BuildFromThetaU(tu geom.ThetaU) {
	f.tu = tu
}

func (f *ThetaU) Frame() RotationFrame { return f.frame }
func (f *ThetaU) ThetaU() geom.ThetaU  { return f.tu }

func (f *ThetaU) Kind() Kind        { return KindThetaU }
func (f *ThetaU) Dimension() int    { return 3 }
func (f *ThetaU) Values() []float64 { return []float64{f.tu[0], f.tu[1], f.tu[2]} }

// Interaction is [0 Lw] with
//
//	Lw =  I + θ/2 [u]x + (1 - sinc θ / sinc²(θ/2)) [u]x²   (CdRc)
//	Lw = -I + θ/2 [u]x - (1 - sinc θ / sinc²(θ/2)) [u]x²   (CRcd)
func (f *ThetaU) Interaction(sel Selector) (*mat.Dense, error) {
	idx, err := indices(sel, KindThetaU, 3)
	if err != nil {
		return nil, err
	}

	theta := f.tu.Angle()
	u := f.tu.Axis()
	sk := u.Skew()
	sk2 := sk.Mul(sk)

	half := geom.Sinc(theta / 2)
	coef := 1 - geom.Sinc(theta)/(half*half)

	sign := 1.0
	if f.frame == CRcd {
		sign = -1
	}
	lw := geom.Identity().Scale(sign).Add(sk.Scale(theta / 2)).Add(sk2.Scale(sign * coef))

	rows := make([][6]float64, 3)
	for i := 0; i < 3; i++ {
		copy(rows[i][3:], lw[i][:])
	}
	return selectRows(rows, idx), nil
}

func (f *ThetaU) Error(desired Feature, sel Selector) (*mat.VecDense, error) {
	if d, ok := desired.(*ThetaU); ok && d != nil && d.frame != f.frame {
		return nil, fmt.Errorf("%w: %s vs %s", ErrFrameMismatch, f.frame, d.frame)
	}
	return difference(f, desired, sel)
}

func (f *ThetaU) Print(w io.Writer, sel Selector) error {
	return printValues(w, "thetau", []string{"tux", "tuy", "tuz"}, f.Values(), sel, KindThetaU, f.frame.String())
}

func (f *ThetaU) String() string { return render(f) }
