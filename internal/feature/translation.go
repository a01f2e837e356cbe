package feature

import (
	"fmt"
	"io"

	"github.com/san-kum/vservo/internal/geom"
	"gonum.org/v1/gonum/mat"
)

type TranslationSelect uint32

const (
	TranslationTX TranslationSelect = 1 << iota
	TranslationTY
	TranslationTZ
)

func (TranslationSelect) Kind() Kind     { return KindTranslation }
func (s TranslationSelect) Bits() uint32 { return uint32(s) }

// TranslationFrame names which displacement the translation feature holds.
type TranslationFrame int

const (
	// CdMc is the current camera position in the desired camera frame.
	CdMc TranslationFrame = iota
	// CMcd is the desired camera position in the current camera frame.
	CMcd
	// CMo is the object position in the current camera frame.
	CMo
)

func (f TranslationFrame) String() string {
	switch f {
	case CdMc:
		return "cdMc"
	case CMcd:
		return "cMcd"
	case CMo:
		return "cMo"
	default:
		return fmt.Sprintf("frame(%d)", int(f))
	}
}

// Translation is a 3D translation feature.
type Translation struct {
	frame TranslationFrame
	t     geom.Vec3
	r     geom.Rotation
}

func NewTranslation(frame TranslationFrame) *Translation {
	return &Translation{frame: frame, r: geom.Identity()}
}

// BuildFrom takes the translation from m, which must be the transformation
// named by the feature's frame. For CdMc the rotation cdRc is kept for the
// interaction matrix.
func (f *Translation) BuildFrom(m geom.Homogeneous) {
	f.t = m.T
	f.r = m.R
}

func (f *Translation) Frame() TranslationFrame { return f.frame }
func (f *Translation) Translation() geom.Vec3  { return f.t }

func (f *Translation) Kind() Kind        { return KindTranslation }
func (f *Translation) Dimension() int    { return 3 }
func (f *Translation) Values() []float64 { return []float64{f.t[0], f.t[1], f.t[2]} }

// Interaction is [cdRc 0] for CdMc and [-I3 [t]x] for CMcd and CMo.
func (f *Translation) Interaction(sel Selector) (*mat.Dense, error) {
	idx, err := indices(sel, KindTranslation, 3)
	if err != nil {
		return nil, err
	}

	rows := make([][6]float64, 3)
	switch f.frame {
	case CdMc:
		for i := 0; i < 3; i++ {
			copy(rows[i][:3], f.r[i][:])
		}
	default:
		sk := f.t.Skew()
		for i := 0; i < 3; i++ {
			rows[i][i] = -1
			copy(rows[i][3:], sk[i][:])
		}
	}
	return selectRows(rows, idx), nil
}

func (f *Translation) Error(desired Feature, sel Selector) (*mat.VecDense, error) {
	if d, ok := desired.(*Translation); ok && d != nil && d.frame != f.frame {
		return nil, fmt.Errorf("%w: %s vs %s", ErrFrameMismatch, f.frame, d.frame)
	}
	return difference(f, desired, sel)
}

func (f *Translation) Print(w io.Writer, sel Selector) error {
	return printValues(w, "translation", []string{"tx", "ty", "tz"}, f.Values(), sel, KindTranslation, f.frame.String())
}

func (f *Translation) String() string { return render(f) }
