package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/vservo/internal/feature"
	"github.com/san-kum/vservo/internal/geom"
	"github.com/san-kum/vservo/internal/robot"
	"github.com/san-kum/vservo/internal/servo"
)

// scalarLoop is a one-dimensional plant x' = v with controller v = -x.
type scalarLoop struct {
	x      float64
	e      *mat.VecDense
	v      float64
	senses int
}

func (l *scalarLoop) Sense(t float64) error {
	l.senses++
	return nil
}

func (l *scalarLoop) ComputeControlLaw() (*mat.VecDense, error) {
	l.e = mat.NewVecDense(1, []float64{l.x})
	return mat.NewVecDense(1, []float64{l.v * l.x}), nil
}

func (l *scalarLoop) Error() *mat.VecDense { return l.e }

func (l *scalarLoop) SetVelocity(v mat.Vector, dt float64) error {
	l.x += dt * v.AtVec(0)
	return nil
}

func newScalarLoop(x float64) *scalarLoop {
	return &scalarLoop{x: x, v: -1}
}

func TestSimulatorRun(t *testing.T) {
	loop := newScalarLoop(1)
	sim := New(loop, loop, loop)

	cfg := Config{Dt: 0.1, Iterations: 10}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Iterations != 10 {
		t.Errorf("expected 10 iterations, got %d", result.Iterations)
	}
	if len(result.Times) != 10 || len(result.Norms) != 10 {
		t.Errorf("expected 10 samples, got %d times and %d norms", len(result.Times), len(result.Norms))
	}
	if loop.senses != 10 {
		t.Errorf("expected 10 sensor reads, got %d", loop.senses)
	}

	expected := math.Pow(0.9, 10)
	if math.Abs(loop.x-expected) > 1e-12 {
		t.Errorf("expected final state %.6f, got %.6f", expected, loop.x)
	}
	if result.Converged {
		t.Error("loop without threshold should not converge")
	}
}

func TestSimulatorConvergence(t *testing.T) {
	loop := newScalarLoop(1)
	sim := New(loop, loop, loop)

	result, err := sim.Run(context.Background(), Config{Dt: 0.5, Iterations: 100, Threshold: 1e-3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Converged {
		t.Fatal("expected convergence")
	}
	if result.Iterations >= 100 {
		t.Errorf("expected early stop, ran %d iterations", result.Iterations)
	}
	if result.FinalNorm() >= 1e-3 {
		t.Errorf("final norm %g above threshold", result.FinalNorm())
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	loop := newScalarLoop(1)
	sim := New(loop, loop, loop)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Iterations: 10}},
		{"negative dt", Config{Dt: -0.1, Iterations: 10}},
		{"zero iterations", Config{Dt: 0.1, Iterations: 0}},
		{"negative iterations", Config{Dt: 0.1, Iterations: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorRejectsNonFiniteVelocity(t *testing.T) {
	loop := newScalarLoop(1)
	loop.v = math.Inf(-1)
	sim := New(loop, loop, loop)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Iterations: 5})
	if !errors.Is(err, ErrInvalidVelocity) {
		t.Fatalf("expected ErrInvalidVelocity, got %v", err)
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Iteration != 0 {
		t.Errorf("expected a step error at iteration 0, got %v", err)
	}
	if loop.x != 1 {
		t.Error("non-finite velocity must not reach the plant")
	}
	if result.Iterations != 0 {
		t.Errorf("expected no completed iteration, got %d", result.Iterations)
	}
}

func TestSimulatorSensorFailure(t *testing.T) {
	loop := newScalarLoop(1)
	boom := errors.New("camera unplugged")
	sim := New(SensorFunc(func(float64) error { return boom }), loop, loop)

	_, err := sim.Run(context.Background(), Config{Dt: 0.1, Iterations: 5})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sensor error, got %v", err)
	}
}

func TestSimulatorContextCancel(t *testing.T) {
	loop := newScalarLoop(1)
	sim := New(loop, loop, loop)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, Config{Dt: 0.1, Iterations: 5})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type countMetric struct {
	count int
	sum   float64
}

func (m *countMetric) Name() string { return "test" }
func (m *countMetric) Observe(e, v []float64, t float64) {
	m.count++
	m.sum += e[0]
}
func (m *countMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *countMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	loop := newScalarLoop(1)
	sim := New(loop, loop, loop)

	metric := &countMetric{}
	sim.AddMetric(metric)
	seen := 0
	sim.AddObserver(ObserverFunc(func(s Sample) { seen++ }))

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Iterations: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if seen != 10 {
		t.Errorf("expected 10 observer calls, got %d", seen)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	loop := newScalarLoop(1)
	sim := New(loop, loop, loop)

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1, Iterations: 50}, func(Sample) bool {
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls)
	}
}

func TestEnsemble(t *testing.T) {
	g := gomega.NewWithT(t)

	ens := NewEnsemble(func(idx int) (*Simulator, error) {
		loop := newScalarLoop(float64(idx + 1))
		return New(loop, loop, loop), nil
	}, 4)
	ens.SetWorkers(2)

	results, err := ens.Run(context.Background(), Config{Dt: 0.1, Iterations: 5})
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(results).To(gomega.HaveLen(4))
	for i, r := range results {
		g.Expect(r.Norms[0]).To(gomega.BeNumerically("~", float64(i+1), 1e-12))
	}

	failing := NewEnsemble(func(idx int) (*Simulator, error) {
		return nil, ErrInvalidConfig
	}, 2)
	_, err = failing.Run(context.Background(), Config{Dt: 0.1, Iterations: 5})
	g.Expect(err).To(gomega.MatchError(ErrInvalidConfig))
}

// A position-based loop on a free-flying camera: the error norm must
// shrink every iteration.
func TestPoseLoopErrorDecreases(t *testing.T) {
	g := gomega.NewWithT(t)

	cdMo := geom.NewPose(0, 0, 0.75, 0, 0, 0)
	cam := robot.NewCamera(geom.NewPose(0.1, -0.1, 1.2, 10, -15, 25))

	tr, trd := feature.NewTranslation(feature.CdMc), feature.NewTranslation(feature.CdMc)
	tu, tud := feature.NewThetaU(feature.CdRc), feature.NewThetaU(feature.CdRc)

	task := servo.NewTask()
	task.SetServo(servo.EyeInHandCamera)
	task.SetLambda(servo.ConstantGain(0.5))
	_, err := task.AddFeature(tr, trd, nil)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	_, err = task.AddFeature(tu, tud, nil)
	g.Expect(err).NotTo(gomega.HaveOccurred())

	sense := SensorFunc(func(float64) error {
		cdMc := cdMo.Mul(cam.Pose().Inverse())
		tr.BuildFrom(cdMc)
		tu.BuildFrom(cdMc)
		return nil
	})

	sim := New(sense, task, cam)
	result, err := sim.Run(context.Background(), Config{Dt: 0.04, Iterations: 300})
	g.Expect(err).NotTo(gomega.HaveOccurred())

	for i := 1; i < len(result.Norms); i++ {
		g.Expect(result.Norms[i]).To(gomega.BeNumerically("<=", result.Norms[i-1]+1e-12), "iteration %d", i)
	}
	g.Expect(result.FinalNorm()).To(gomega.BeNumerically("<", 0.01*result.Norms[0]))
	g.Expect(cam.Pose().Equal(cdMo, 1e-2)).To(gomega.BeTrue())
}
