package robot

import (
	"math"
	"testing"

	"github.com/san-kum/vservo/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCameraSetVelocity(t *testing.T) {
	cam := NewCamera(geom.Homogeneous{R: geom.Identity(), T: geom.Vec3{0, 0, 1}})

	require.NoError(t, cam.SetVelocity(mat.NewVecDense(6, nil), 0))
	assert.InDelta(t, 1.0, cam.Pose().T[2], 1e-12)
	assert.InDelta(t, DefaultSamplingTime, cam.Time(), 1e-12)

	// moving forward brings the object closer
	require.NoError(t, cam.SetVelocity(mat.NewVecDense(6, []float64{0, 0, 0.1, 0, 0, 0}), 1))
	assert.InDelta(t, 0.9, cam.Pose().T[2], 1e-12)
	assert.InDelta(t, 0.0, cam.Pose().T[0], 1e-12)
}

func TestCameraRotationKeepsDistance(t *testing.T) {
	cam := NewCamera(geom.Homogeneous{R: geom.Identity(), T: geom.Vec3{0, 0, 2}})
	for i := 0; i < 10; i++ {
		require.NoError(t, cam.SetVelocity(mat.NewVecDense(6, []float64{0, 0, 0, 0.1, -0.2, 0.3}), 0.04))
	}
	assert.InDelta(t, 2.0, cam.Pose().T.Norm(), 1e-9)
}

func TestCameraDimension(t *testing.T) {
	cam := NewCamera(geom.IdentityPose())
	err := cam.SetVelocity(mat.NewVecDense(3, nil), 0.1)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestForwardKinematicsAtRest(t *testing.T) {
	fMc := ForwardKinematics([2]float64{0, 0})
	want := geom.Rotation{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want[i][j], fMc.R[i][j], 1e-12)
		}
	}
	assert.InDelta(t, -CameraOffset, fMc.T[2], 1e-12)
}

func TestForwardKinematicsIsRigid(t *testing.T) {
	fMc := ForwardKinematics([2]float64{0.3, -0.4})
	rrt := fMc.R.Mul(fMc.R.Transpose())
	id := geom.Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, id[i][j], rrt[i][j], 1e-12)
		}
	}
}

func TestPanTiltSpeedLimit(t *testing.T) {
	pt := NewPanTilt(geom.IdentityPose())
	require.NoError(t, pt.SetVelocity(mat.NewVecDense(2, []float64{10, -0.1}), 0.1))

	q := pt.Joints()
	assert.InDelta(t, SpeedLimit*0.1, q[0], 1e-12)
	assert.InDelta(t, -0.01, q[1], 1e-12)
	assert.True(t, pt.Saturated())
}

func TestPanTiltJointLimits(t *testing.T) {
	pt := NewPanTilt(geom.IdentityPose())
	require.NoError(t, pt.SetJoints([]float64{3, -3}))
	assert.Equal(t, [2]float64{PanLimit, -TiltLimit}, pt.Joints())
	assert.True(t, pt.Saturated())

	require.NoError(t, pt.SetJoints([]float64{0.1, 0.2}))
	assert.False(t, pt.Saturated())

	assert.ErrorIs(t, pt.SetJoints([]float64{1}), ErrDimension)
	assert.ErrorIs(t, pt.SetVelocity(mat.NewVecDense(6, nil), 0), ErrDimension)
}

func TestPanTiltJacobians(t *testing.T) {
	q := [2]float64{0.2, 0.5}
	eJe := EffectorJacobian(q)
	r, c := eJe.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 2, c)
	assert.InDelta(t, -math.Cos(0.5), eJe.At(3, 0), 1e-12)

	fJe := FixedJacobian(q)
	assert.InDelta(t, 1.0, fJe.At(5, 0), 1e-12)
	assert.InDelta(t, math.Cos(0.2), fJe.At(4, 1), 1e-12)

	pt := NewPanTilt(geom.IdentityPose())
	r, c = pt.Twist().Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 6, c)
}

func TestPanTiltCameraPose(t *testing.T) {
	fMo := geom.Homogeneous{R: geom.Identity(), T: geom.Vec3{1, 0, 0}}
	pt := NewPanTilt(fMo)

	// at rest the optical axis is the fixed x axis, so the object sits in
	// front of the camera
	cMo := pt.CameraPose()
	assert.Greater(t, cMo.T[2], 0.9)
	assert.InDelta(t, 0.0, cMo.T[0], 1e-12)
}
