package robot

import (
	"fmt"
	"math"

	"github.com/san-kum/vservo/internal/geom"
	"gonum.org/v1/gonum/mat"
)

const (
	// CameraOffset is the vertical offset from the tilt axis to the camera.
	CameraOffset = 0.048
	PanLimit     = math.Pi / 2
	TiltLimit    = math.Pi / 4.5
	// SpeedLimit bounds each joint speed, in rad/s.
	SpeedLimit = math.Pi / 3
)

// PanTilt is a two-joint head carrying a camera. Joint 0 pans around the
// vertical axis of the fixed frame, joint 1 tilts the camera.
type PanTilt struct {
	SamplingTime float64

	q         [2]float64
	fMo       geom.Homogeneous
	saturated bool
}

// NewPanTilt returns a head at the zero joint position looking at an
// object whose pose in the fixed frame is fMo.
func NewPanTilt(fMo geom.Homogeneous) *PanTilt {
	return &PanTilt{SamplingTime: DefaultSamplingTime, fMo: fMo}
}

func (p *PanTilt) Joints() [2]float64 { return p.q }

// SetJoints moves the head to q, clamped to the joint limits.
func (p *PanTilt) SetJoints(q []float64) error {
	if len(q) != 2 {
		return fmt.Errorf("%w: %d joints, want 2", ErrDimension, len(q))
	}
	p.q, p.saturated = clampJoints([2]float64{q[0], q[1]})
	return nil
}

// Saturated reports whether the last motion hit a joint or speed limit.
func (p *PanTilt) Saturated() bool { return p.saturated }

// SetVelocity integrates the joint velocity qdot for dt seconds. Each
// speed is clipped to SpeedLimit and the result to the joint limits.
func (p *PanTilt) SetVelocity(qdot mat.Vector, dt float64) error {
	if qdot.Len() != 2 {
		return fmt.Errorf("%w: joint velocity has %d components, want 2", ErrDimension, qdot.Len())
	}
	if dt <= 0 {
		dt = p.SamplingTime
	}

	fast := false
	var next [2]float64
	for i := range next {
		w := qdot.AtVec(i)
		if math.Abs(w) > SpeedLimit {
			w = math.Copysign(SpeedLimit, w)
			fast = true
		}
		next[i] = p.q[i] + w*dt
	}
	var hit bool
	p.q, hit = clampJoints(next)
	p.saturated = fast || hit
	return nil
}

func clampJoints(q [2]float64) ([2]float64, bool) {
	limits := [2]float64{PanLimit, TiltLimit}
	hit := false
	for i, l := range limits {
		if q[i] > l {
			q[i], hit = l, true
		} else if q[i] < -l {
			q[i], hit = -l, true
		}
	}
	return q, hit
}

// CameraPose is cMo for the current joint position.
func (p *PanTilt) CameraPose() geom.Homogeneous {
	return ForwardKinematics(p.q).Inverse().Mul(p.fMo)
}

// ForwardKinematics returns fMc, the camera pose in the fixed frame.
func ForwardKinematics(q [2]float64) geom.Homogeneous {
	c1, s1 := math.Cos(q[0]), math.Sin(q[0])
	c2, s2 := math.Cos(q[1]), math.Sin(q[1])
	h := CameraOffset
	return geom.Homogeneous{
		R: geom.Rotation{
			{-s1, c1 * s2, c1 * c2},
			{c1, s1 * s2, s1 * c2},
			{0, c2, -s2},
		},
		T: geom.Vec3{-h * c1 * s2, -h * s1 * s2, -h * c2},
	}
}

// CameraToEffector returns cMe, the constant transformation from the
// tilt-axis frame to the camera frame.
func CameraToEffector() geom.Homogeneous {
	eMc := geom.Homogeneous{
		R: geom.Rotation{
			{0, -1, 0},
			{1, 0, 0},
			{0, 0, 1},
		},
		T: geom.Vec3{CameraOffset, 0, 0},
	}
	return eMc.Inverse()
}

// Twist returns cVe, the velocity twist from effector to camera frame.
func (p *PanTilt) Twist() *mat.Dense {
	return geom.Twist(CameraToEffector())
}

// EffectorJacobian returns eJe, the 6x2 Jacobian in the tilt-axis frame.
func EffectorJacobian(q [2]float64) *mat.Dense {
	j := mat.NewDense(6, 2, nil)
	j.Set(3, 0, -math.Cos(q[1]))
	j.Set(4, 1, 1)
	j.Set(5, 0, -math.Sin(q[1]))
	return j
}

// FixedJacobian returns fJe, the 6x2 Jacobian in the fixed frame.
func FixedJacobian(q [2]float64) *mat.Dense {
	j := mat.NewDense(6, 2, nil)
	j.Set(3, 1, -math.Sin(q[0]))
	j.Set(4, 1, math.Cos(q[0]))
	j.Set(5, 0, 1)
	return j
}
