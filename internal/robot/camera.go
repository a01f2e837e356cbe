package robot

import (
	"errors"
	"fmt"

	"github.com/san-kum/vservo/internal/geom"
	"gonum.org/v1/gonum/mat"
)

var ErrDimension = errors.New("robot: dimension mismatch")

// DefaultSamplingTime is the control period used when SetVelocity gets a
// non-positive dt.
const DefaultSamplingTime = 0.04

// Camera is a free-flying camera observing a static object. Its state is
// the object pose in the camera frame.
type Camera struct {
	SamplingTime float64

	cMo  geom.Homogeneous
	time float64
}

func NewCamera(cMo geom.Homogeneous) *Camera {
	return &Camera{SamplingTime: DefaultSamplingTime, cMo: cMo}
}

func (c *Camera) Pose() geom.Homogeneous { return c.cMo }

func (c *Camera) SetPose(cMo geom.Homogeneous) { c.cMo = cMo }

// Time is the simulated time accumulated by SetVelocity.
func (c *Camera) Time() float64 { return c.time }

// SetVelocity applies the camera-frame velocity v = (v, ω) for dt seconds:
// cMo ← exp(v dt)⁻¹ cMo.
func (c *Camera) SetVelocity(v mat.Vector, dt float64) error {
	if v.Len() != 6 {
		return fmt.Errorf("%w: camera velocity has %d components, want 6", ErrDimension, v.Len())
	}
	if dt <= 0 {
		dt = c.SamplingTime
	}

	var tw [6]float64
	for i := range tw {
		tw[i] = v.AtVec(i)
	}
	cMc := geom.Direct(tw, dt)
	c.cMo = cMc.Inverse().Mul(c.cMo)
	c.time += dt
	return nil
}
