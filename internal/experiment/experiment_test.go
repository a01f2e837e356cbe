package experiment

import (
	"context"
	"testing"

	"github.com/onsi/gomega"

	"github.com/san-kum/vservo/internal/servo"
)

func TestRegistryList(t *testing.T) {
	g := gomega.NewWithT(t)
	reg := NewRegistry()

	g.Expect(reg.ListScenarios()).To(gomega.Equal([]string{"2.5d", "2d-points", "3d-cdmc", "3d-cmcd", "pan-tilt"}))

	_, _, err := reg.Get("3d-cdmc")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	_, _, err = reg.Get("stereo")
	g.Expect(err).To(gomega.MatchError(ErrUnknownScenario))
}

func TestScenariosConverge(t *testing.T) {
	reg := NewRegistry()
	for _, name := range reg.ListScenarios() {
		t.Run(name, func(t *testing.T) {
			g := gomega.NewWithT(t)

			exp := New(DefaultConfig(name))
			g.Expect(exp.Setup(reg, reg.DefaultMetrics(1e-3))).To(gomega.Succeed())

			result, err := exp.Run(context.Background())
			g.Expect(err).NotTo(gomega.HaveOccurred())
			g.Expect(result.Converged).To(gomega.BeTrue(), "final norm %g", result.FinalNorm())
			g.Expect(result.Metrics).To(gomega.HaveKey("final_error"))
			g.Expect(result.Metrics["convergence_time"]).To(gomega.BeNumerically(">=", 0))
		})
	}
}

func TestArticularCameraMatchesCameraVelocity(t *testing.T) {
	g := gomega.NewWithT(t)
	reg := NewRegistry()

	camCfg := DefaultConfig("2d-points")
	camCfg.Iterations = 20
	cam := New(camCfg)
	g.Expect(cam.Setup(reg, nil)).To(gomega.Succeed())

	jointCfg := camCfg
	jointCfg.Scheme = servo.EyeInHandLcVeeJe
	joint := New(jointCfg)
	g.Expect(joint.Setup(reg, nil)).To(gomega.Succeed())

	r1, err := cam.Run(context.Background())
	g.Expect(err).NotTo(gomega.HaveOccurred())
	r2, err := joint.Run(context.Background())
	g.Expect(err).NotTo(gomega.HaveOccurred())

	g.Expect(r2.Iterations).To(gomega.Equal(r1.Iterations))
	for i := range r1.Norms {
		g.Expect(r2.Norms[i]).To(gomega.BeNumerically("~", r1.Norms[i], 1e-9))
	}
}

func TestSetupErrors(t *testing.T) {
	g := gomega.NewWithT(t)
	reg := NewRegistry()

	_, err := New(DefaultConfig("2d-points")).Run(context.Background())
	g.Expect(err).To(gomega.MatchError(ErrNotSetup))

	g.Expect(New(DefaultConfig("nope")).Setup(reg, nil)).To(gomega.MatchError(ErrUnknownScenario))

	cfg := DefaultConfig("2d-points")
	cfg.Scheme = servo.EyeToHandLcVffJe
	g.Expect(New(cfg).Setup(reg, nil)).To(gomega.MatchError(ErrUnsupportedScheme))

	cfg = DefaultConfig("pan-tilt")
	cfg.Scheme = servo.EyeInHandCamera
	g.Expect(New(cfg).Setup(reg, nil)).To(gomega.MatchError(ErrUnsupportedScheme))
}

func TestImagePoints(t *testing.T) {
	g := gomega.NewWithT(t)
	reg := NewRegistry()

	exp := New(DefaultConfig("2d-points"))
	g.Expect(exp.Setup(reg, nil)).To(gomega.Succeed())
	cur, des := exp.Scenario().ImagePoints()
	g.Expect(cur).To(gomega.HaveLen(4))
	g.Expect(des).To(gomega.HaveLen(4))
	g.Expect(des[2][0]).To(gomega.BeNumerically("~", 0.1, 1e-12))
	g.Expect(exp.Task().Dimension()).To(gomega.Equal(8))

	pt := New(DefaultConfig("pan-tilt"))
	g.Expect(pt.Setup(reg, nil)).To(gomega.Succeed())
	cur, des = pt.Scenario().ImagePoints()
	g.Expect(cur).To(gomega.HaveLen(1))
	g.Expect(cur[0][0]).To(gomega.BeNumerically("~", 0.3, 1e-9))
	g.Expect(des[0]).To(gomega.Equal([2]float64{0, 0}))
}

func TestPoseOverride(t *testing.T) {
	g := gomega.NewWithT(t)
	reg := NewRegistry()

	cfg := DefaultConfig("3d-cdmc")
	cfg.Init = []float64{0, 0, 1, 0, 0, 0}
	exp := New(cfg)
	g.Expect(exp.Setup(reg, nil)).To(gomega.Succeed())

	result, err := exp.Run(context.Background())
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(result.Iterations).To(gomega.Equal(1))
	g.Expect(result.Converged).To(gomega.BeTrue())
}
