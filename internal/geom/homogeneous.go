package geom

import (
	"fmt"
	"math"
)

// Homogeneous is a rigid transformation aMb = [R t; 0 1].
type Homogeneous struct {
	R Rotation
	T Vec3
}

// IdentityPose returns the identity transformation.
func IdentityPose() Homogeneous {
	return Homogeneous{R: Identity()}
}

// FromPoseVector builds a transformation from (tx, ty, tz, θux, θuy, θuz).
func FromPoseVector(p [6]float64) Homogeneous {
	return Homogeneous{
		R: ThetaU{p[3], p[4], p[5]}.Rotation(),
		T: Vec3{p[0], p[1], p[2]},
	}
}

// NewPose is FromPoseVector with the translation in meters and the θu
// rotation in degrees.
func NewPose(tx, ty, tz, rxDeg, ryDeg, rzDeg float64) Homogeneous {
	return FromPoseVector([6]float64{tx, ty, tz, Rad(rxDeg), Rad(ryDeg), Rad(rzDeg)})
}

// Mul composes aMb.Mul(bMc) = aMc.
func (m Homogeneous) Mul(o Homogeneous) Homogeneous {
	return Homogeneous{
		R: m.R.Mul(o.R),
		T: m.R.Apply(o.T).Add(m.T),
	}
}

// Inverse returns bMa from aMb.
func (m Homogeneous) Inverse() Homogeneous {
	rt := m.R.Transpose()
	return Homogeneous{R: rt, T: rt.Apply(m.T).Scale(-1)}
}

// Apply maps a point expressed in frame b to frame a.
func (m Homogeneous) Apply(p Vec3) Vec3 {
	return m.R.Apply(p).Add(m.T)
}

// PoseVector returns (tx, ty, tz, θux, θuy, θuz).
func (m Homogeneous) PoseVector() [6]float64 {
	tu := m.R.ThetaU()
	return [6]float64{m.T[0], m.T[1], m.T[2], tu[0], tu[1], tu[2]}
}

// Equal compares two transformations element-wise within tol.
func (m Homogeneous) Equal(o Homogeneous, tol float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(m.T[i]-o.T[i]) > tol {
			return false
		}
		for j := 0; j < 3; j++ {
			if math.Abs(m.R[i][j]-o.R[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func (m Homogeneous) String() string {
	p := m.PoseVector()
	return fmt.Sprintf("t=(%.4f, %.4f, %.4f) θu=(%.2f°, %.2f°, %.2f°)",
		p[0], p[1], p[2], Deg(p[3]), Deg(p[4]), Deg(p[5]))
}
