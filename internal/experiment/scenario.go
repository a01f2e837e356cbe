package experiment

import (
	"fmt"

	"github.com/san-kum/vservo/internal/feature"
	"github.com/san-kum/vservo/internal/geom"
	"github.com/san-kum/vservo/internal/linalg"
	"github.com/san-kum/vservo/internal/robot"
	"github.com/san-kum/vservo/internal/servo"
	"gonum.org/v1/gonum/mat"
)

// Scenario is a plant wired to a task: it refreshes the task's features
// from the simulated robot and applies the task's velocity back to it.
type Scenario interface {
	Sense(t float64) error
	SetVelocity(v mat.Vector, dt float64) error
	// Pose is the current object pose in the camera frame.
	Pose() geom.Homogeneous
	// ImagePoints are the current and desired normalized image points of
	// the object, for display.
	ImagePoints() (current, desired [][2]float64)
}

// Builder registers the features of a scenario on task and returns the
// plant. init and desired are the initial cMo and the target cdMo.
type Builder func(task *servo.Task, init, desired geom.Homogeneous) (Scenario, error)

// ObjectPoints is the planar square observed by the point-based scenarios.
var ObjectPoints = []geom.Vec3{
	{-0.1, -0.1, 0},
	{0.1, -0.1, 0},
	{0.1, 0.1, 0},
	{-0.1, 0.1, 0},
}

func project(cMo geom.Homogeneous, pts []geom.Vec3) [][2]float64 {
	out := make([][2]float64, 0, len(pts))
	for _, p := range pts {
		c := cMo.Apply(p)
		if c[2] == 0 {
			continue
		}
		out = append(out, [2]float64{c[0] / c[2], c[1] / c[2]})
	}
	return out
}

// cameraScene drives a free-flying camera. refresh rebuilds the current
// features from cMo.
type cameraScene struct {
	cam     *robot.Camera
	cdMo    geom.Homogeneous
	refresh func(cMo geom.Homogeneous)
}

func (s *cameraScene) Sense(t float64) error {
	s.refresh(s.cam.Pose())
	return nil
}

func (s *cameraScene) SetVelocity(v mat.Vector, dt float64) error {
	return s.cam.SetVelocity(v, dt)
}

func (s *cameraScene) Pose() geom.Homogeneous { return s.cam.Pose() }

func (s *cameraScene) ImagePoints() ([][2]float64, [][2]float64) {
	return project(s.cam.Pose(), ObjectPoints), project(s.cdMo, ObjectPoints)
}

// cameraScheme prepares the task for a camera plant. The articular
// variant treats the camera as a six-joint robot with eJe = I.
func cameraScheme(task *servo.Task) error {
	switch task.Scheme() {
	case servo.EyeInHandCamera:
		return nil
	case servo.EyeInHandLcVeeJe:
		if err := task.SetCameraTwist(linalg.Identity(6)); err != nil {
			return err
		}
		return task.SetEffectorJacobian(linalg.Identity(6))
	default:
		return fmt.Errorf("%w: %s on a free-flying camera", ErrUnsupportedScheme, task.Scheme())
	}
}

func newCameraScene(task *servo.Task, init, desired geom.Homogeneous, refresh func(cMo geom.Homogeneous)) (*cameraScene, error) {
	if err := cameraScheme(task); err != nil {
		return nil, err
	}
	s := &cameraScene{cam: robot.NewCamera(init), cdMo: desired, refresh: refresh}
	refresh(init)
	return s, nil
}

// buildPose3DCurrent servoes t(cMcd) and θu(cRcd) to zero.
func buildPose3DCurrent(task *servo.Task, init, desired geom.Homogeneous) (Scenario, error) {
	t, td := feature.NewTranslation(feature.CMcd), feature.NewTranslation(feature.CMcd)
	tu, tud := feature.NewThetaU(feature.CRcd), feature.NewThetaU(feature.CRcd)

	s, err := newCameraScene(task, init, desired, func(cMo geom.Homogeneous) {
		cMcd := cMo.Mul(desired.Inverse())
		t.BuildFrom(cMcd)
		tu.BuildFrom(cMcd)
	})
	if err != nil {
		return nil, err
	}
	if _, err := task.AddFeature(t, td, nil); err != nil {
		return nil, err
	}
	if _, err := task.AddFeature(tu, tud, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// buildPose3DDesired servoes t(cdMc) and θu(cdRc) to zero.
func buildPose3DDesired(task *servo.Task, init, desired geom.Homogeneous) (Scenario, error) {
	t, td := feature.NewTranslation(feature.CdMc), feature.NewTranslation(feature.CdMc)
	tu, tud := feature.NewThetaU(feature.CdRc), feature.NewThetaU(feature.CdRc)

	s, err := newCameraScene(task, init, desired, func(cMo geom.Homogeneous) {
		cdMc := desired.Mul(cMo.Inverse())
		t.BuildFrom(cdMc)
		tu.BuildFrom(cdMc)
	})
	if err != nil {
		return nil, err
	}
	if _, err := task.AddFeature(t, td, nil); err != nil {
		return nil, err
	}
	if _, err := task.AddFeature(tu, tud, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// buildPoints2D servoes the four image points of ObjectPoints.
func buildPoints2D(task *servo.Task, init, desired geom.Homogeneous) (Scenario, error) {
	cur := make([]*feature.Point, len(ObjectPoints))
	des := make([]*feature.Point, len(ObjectPoints))
	for i, o := range ObjectPoints {
		cur[i] = feature.NewPoint()
		des[i] = feature.NewPoint()
		des[i].BuildFromPose(desired, o)
	}

	s, err := newCameraScene(task, init, desired, func(cMo geom.Homogeneous) {
		for i, o := range ObjectPoints {
			cur[i].BuildFromPose(cMo, o)
		}
	})
	if err != nil {
		return nil, err
	}
	for i := range cur {
		if _, err := task.AddFeature(cur[i], des[i], nil); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// buildHybrid combines the image point of the object origin, the log depth
// ratio and θu(cdRc).
func buildHybrid(task *servo.Task, init, desired geom.Homogeneous) (Scenario, error) {
	var origin geom.Vec3
	zd := desired.Apply(origin)[2]

	p, pd := feature.NewPoint(), feature.NewPoint()
	pd.BuildFromPose(desired, origin)
	z, zdes := feature.NewDepth(), feature.NewDepth()
	zdes.BuildFromDepths(pd.X(), pd.Y(), zd, zd)
	tu, tud := feature.NewThetaU(feature.CdRc), feature.NewThetaU(feature.CdRc)

	s, err := newCameraScene(task, init, desired, func(cMo geom.Homogeneous) {
		p.BuildFromPose(cMo, origin)
		z.BuildFromDepths(p.X(), p.Y(), p.Z(), zd)
		tu.BuildFrom(desired.Mul(cMo.Inverse()))
	})
	if err != nil {
		return nil, err
	}
	if _, err := task.AddFeature(p, pd, nil); err != nil {
		return nil, err
	}
	if _, err := task.AddFeature(z, zdes, nil); err != nil {
		return nil, err
	}
	if _, err := task.AddFeature(tu, tud, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// panTiltScene centres one point with a pan-tilt head. Its pose argument
// is the object pose in the head's fixed frame.
type panTiltScene struct {
	head *robot.PanTilt
	task *servo.Task
	p    *feature.Point
}

func buildPanTilt(task *servo.Task, fMo, _ geom.Homogeneous) (Scenario, error) {
	if task.Scheme() != servo.EyeInHandLcVeeJe {
		return nil, fmt.Errorf("%w: %s on a pan-tilt head", ErrUnsupportedScheme, task.Scheme())
	}

	s := &panTiltScene{head: robot.NewPanTilt(fMo), task: task, p: feature.NewPoint()}
	if err := task.SetCameraTwist(s.head.Twist()); err != nil {
		return nil, err
	}
	if err := s.Sense(0); err != nil {
		return nil, err
	}

	pd := feature.NewPoint()
	pd.BuildFrom(0, 0, s.p.Z())
	if _, err := task.AddFeature(s.p, pd, nil); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *panTiltScene) Sense(t float64) error {
	s.p.BuildFromPose(s.head.CameraPose(), geom.Vec3{})
	return s.task.SetEffectorJacobian(robot.EffectorJacobian(s.head.Joints()))
}

func (s *panTiltScene) SetVelocity(v mat.Vector, dt float64) error {
	return s.head.SetVelocity(v, dt)
}

func (s *panTiltScene) Pose() geom.Homogeneous { return s.head.CameraPose() }

func (s *panTiltScene) ImagePoints() ([][2]float64, [][2]float64) {
	return [][2]float64{{s.p.X(), s.p.Y()}}, [][2]float64{{0, 0}}
}
