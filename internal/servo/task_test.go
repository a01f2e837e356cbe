package servo_test

import (
	"bytes"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/vservo/internal/feature"
	"github.com/san-kum/vservo/internal/geom"
	"github.com/san-kum/vservo/internal/linalg"
	"github.com/san-kum/vservo/internal/servo"
)

func square(z float64) ([]*feature.Point, []*feature.Point) {
	xy := [][2]float64{{-0.1, -0.1}, {0.1, -0.1}, {0.1, 0.1}, {-0.1, 0.1}}
	cur := make([]*feature.Point, len(xy))
	des := make([]*feature.Point, len(xy))
	for i, p := range xy {
		cur[i] = feature.NewPoint()
		cur[i].BuildFrom(p[0], p[1], z)
		des[i] = feature.NewPoint()
		des[i].BuildFrom(p[0], p[1], z)
	}
	return cur, des
}

func expectAllNear(v mat.Vector, want []float64) {
	ExpectWithOffset(1, v.Len()).To(Equal(len(want)))
	for i := range want {
		ExpectWithOffset(1, v.AtVec(i)).To(BeNumerically("~", want[i], 1e-9), "component %d", i)
	}
}

var _ = Describe("Task", func() {
	var task *servo.Task

	BeforeEach(func() {
		task = servo.NewTask()
		task.SetServo(servo.EyeInHandCamera)
		task.SetInteractionMatrixType(servo.Current, servo.PseudoInverse)
		task.SetLambda(servo.ConstantGain(1))
	})

	Describe("configuration", func() {
		It("is unconfigured until a scheme and a pair are set", func() {
			fresh := servo.NewTask()
			Expect(fresh.State()).To(Equal(servo.Unconfigured))

			_, err := fresh.ComputeControlLaw()
			Expect(err).To(MatchError(servo.ErrNoScheme))

			fresh.SetServo(servo.EyeInHandCamera)
			_, err = fresh.ComputeControlLaw()
			Expect(err).To(MatchError(servo.ErrNoFeatures))

			p := feature.NewPoint()
			_, err = fresh.AddFeature(p, feature.NewPoint(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(fresh.State()).To(Equal(servo.Ready))
		})

		It("rejects pairs of different kinds", func() {
			_, err := task.AddFeature(feature.NewPoint(), feature.NewDepth(), feature.All)
			Expect(err).To(MatchError(feature.ErrKindMismatch))
			Expect(task.Len()).To(BeZero())
		})

		It("rejects selectors of another kind", func() {
			_, err := task.AddFeature(feature.NewPoint(), feature.NewPoint(), feature.TranslationTX)
			Expect(err).To(MatchError(feature.ErrSelectorKind))
		})

		It("rejects translations expressed in different frames", func() {
			_, err := task.AddFeature(feature.NewTranslation(feature.CdMc), feature.NewTranslation(feature.CMo), nil)
			Expect(err).To(MatchError(feature.ErrFrameMismatch))
		})

		It("rejects nil features", func() {
			_, err := task.AddFeature(nil, feature.NewPoint(), nil)
			Expect(err).To(MatchError(feature.ErrNilFeature))
		})

		It("removes registrations by handle", func() {
			h1, err := task.AddFeature(feature.NewPoint(), feature.NewPoint(), nil)
			Expect(err).NotTo(HaveOccurred())
			h2, err := task.AddFeature(feature.NewPoint(), feature.NewPoint(), feature.PointY)
			Expect(err).NotTo(HaveOccurred())
			Expect(h1).NotTo(Equal(h2))
			Expect(task.Dimension()).To(Equal(3))

			Expect(task.RemoveFeature(h1)).To(Succeed())
			Expect(task.Dimension()).To(Equal(1))
			Expect(task.RemoveFeature(h1)).To(MatchError(servo.ErrUnknownHandle))
		})

		It("validates frame-change matrix sizes", func() {
			Expect(task.SetCameraTwist(mat.NewDense(3, 3, nil))).To(MatchError(servo.ErrDimension))
			Expect(task.SetEffectorJacobian(mat.NewDense(5, 2, nil))).To(MatchError(servo.ErrDimension))
			Expect(task.SetEffectorJacobian(mat.NewDense(6, 2, nil))).To(Succeed())
		})
	})

	Describe("control law", func() {
		It("returns zero velocity at zero error", func() {
			cur, des := square(1)
			for i := range cur {
				_, err := task.AddFeature(cur[i], des[i], feature.All)
				Expect(err).NotTo(HaveOccurred())
			}

			v, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			expectAllNear(v, make([]float64, 6))
			Expect(task.Rank()).To(Equal(6))
			Expect(task.Error().Len()).To(Equal(8))
		})

		It("is idempotent without feature updates", func() {
			cur, des := square(1.5)
			cur[0].BuildFrom(-0.12, -0.08, 1.5)
			cur[2].BuildFrom(0.09, 0.13, 1.4)
			for i := range cur {
				_, err := task.AddFeature(cur[i], des[i], nil)
				Expect(err).NotTo(HaveOccurred())
			}

			v1, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			v2, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			Expect(mat.Equal(v1, v2)).To(BeTrue())
		})

		It("drives a translation in the desired frame straight back", func() {
			s := feature.NewTranslation(feature.CdMc)
			s.BuildFrom(geom.Homogeneous{R: geom.Identity(), T: geom.Vec3{0.1, 0.2, 0}})
			sd := feature.NewTranslation(feature.CdMc)

			_, err := task.AddFeature(s, sd, nil)
			Expect(err).NotTo(HaveOccurred())

			v, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			expectAllNear(v, []float64{-0.1, -0.2, 0, 0, 0, 0})
			Expect(task.Rank()).To(Equal(3))
		})

		It("drives a translation toward its desired position", func() {
			s := feature.NewTranslation(feature.CdMc)
			s.BuildFrom(geom.Homogeneous{R: geom.Identity(), T: geom.Vec3{0.1, 0.2, 1}})
			sd := feature.NewTranslation(feature.CdMc)
			sd.BuildFrom(geom.Homogeneous{R: geom.Identity(), T: geom.Vec3{0, 0, 1}})

			_, err := task.AddFeature(s, sd, nil)
			Expect(err).NotTo(HaveOccurred())

			v, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			expectAllNear(v, []float64{-0.1, -0.2, 0, 0, 0, 0})
		})

		It("stays finite when the stacked matrix is singular", func() {
			a, b := feature.NewPoint(), feature.NewPoint()
			a.BuildFrom(0.1, 0.1, 1)
			b.BuildFrom(0.1, 0.1, 1)
			ad, bd := feature.NewPoint(), feature.NewPoint()

			_, err := task.AddFeature(a, ad, feature.PointX)
			Expect(err).NotTo(HaveOccurred())
			_, err = task.AddFeature(b, bd, feature.PointX)
			Expect(err).NotTo(HaveOccurred())

			v, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Rank()).To(Equal(1))
			for _, x := range linalg.Values(v) {
				Expect(math.IsNaN(x) || math.IsInf(x, 0)).To(BeFalse())
			}
			// Rows r = [-1 0 0.1 0.01 -1.01 0.1] twice and e = (0.1, 0.1):
			// the truncated inverse gives v = -0.1 r / |r|^2.
			Expect(linalg.Norm(v)).To(BeNumerically("~", 0.1/math.Sqrt(2.0402), 1e-9))
			Expect(linalg.Norm(v)).To(BeNumerically("<", 1))
		})

		It("tolerates a zero depth", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			p.BuildFrom(0.2, -0.1, 0)
			_, err := task.AddFeature(p, pd, nil)
			Expect(err).NotTo(HaveOccurred())

			v, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			Expect(linalg.IsFinite(v)).To(BeTrue())
		})

		It("scales the velocity with the adaptive gain", func() {
			s := feature.NewTranslation(feature.CdMc)
			s.BuildFrom(geom.Homogeneous{R: geom.Identity(), T: geom.Vec3{0.2, 0, 0}})
			_, err := task.AddFeature(s, feature.NewTranslation(feature.CdMc), nil)
			Expect(err).NotTo(HaveOccurred())

			g := servo.NewAdaptiveGain(4, 0.4, 30)
			task.SetLambda(g)
			v, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Lambda()).To(BeNumerically("~", g.Value(0.2), 1e-12))
			Expect(v.AtVec(0)).To(BeNumerically("~", -0.2*g.Value(0.2), 1e-9))
		})

		It("uses the desired and mean interaction matrices", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			p.BuildFrom(0.1, 0, 1)
			pd.BuildFrom(0, 0, 2)
			_, err := task.AddFeature(p, pd, nil)
			Expect(err).NotTo(HaveOccurred())

			task.SetInteractionMatrixType(servo.Desired, servo.PseudoInverse)
			_, err = task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Interaction().At(0, 0)).To(BeNumerically("~", -0.5, 1e-12))

			task.SetInteractionMatrixType(servo.Mean, servo.PseudoInverse)
			_, err = task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			Expect(task.Interaction().At(0, 0)).To(BeNumerically("~", -0.75, 1e-12))
		})

		It("applies the transpose instead of the inverse when asked", func() {
			s := feature.NewTranslation(feature.CdMc)
			s.BuildFrom(geom.Homogeneous{R: geom.Identity(), T: geom.Vec3{0, 0, 0.3}})
			_, err := task.AddFeature(s, feature.NewTranslation(feature.CdMc), nil)
			Expect(err).NotTo(HaveOccurred())

			task.SetInteractionMatrixType(servo.Current, servo.Transpose)
			v, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			expectAllNear(v, []float64{0, 0, -0.3, 0, 0, 0})
		})

		It("returns joint velocities for articular schemes", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			p.BuildFrom(0.1, -0.05, 1)
			_, err := task.AddFeature(p, pd, nil)
			Expect(err).NotTo(HaveOccurred())

			task.SetServo(servo.EyeInHandLcVeeJe)
			_, err = task.ComputeControlLaw()
			Expect(err).To(MatchError(servo.ErrMissingJacobian))

			eJe := mat.NewDense(6, 2, nil)
			eJe.Set(3, 1, 1)
			eJe.Set(4, 0, -1)
			Expect(task.SetCameraTwist(linalg.Identity(6))).To(Succeed())
			Expect(task.SetEffectorJacobian(eJe)).To(Succeed())

			q, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Len()).To(Equal(2))
			r, c := task.TaskJacobian().Dims()
			Expect([]int{r, c}).To(Equal([]int{2, 2}))
		})

		It("negates the frame change for eye-to-hand schemes", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			p.BuildFrom(0.1, -0.05, 1)
			_, err := task.AddFeature(p, pd, nil)
			Expect(err).NotTo(HaveOccurred())

			eJe := linalg.Identity(6)
			Expect(task.SetCameraTwist(linalg.Identity(6))).To(Succeed())
			Expect(task.SetEffectorJacobian(eJe)).To(Succeed())

			task.SetServo(servo.EyeInHandLcVeeJe)
			inHand, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())

			task.SetServo(servo.EyeToHandLcVeeJe)
			toHand, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())

			var sum mat.VecDense
			sum.AddVec(inHand, toHand)
			Expect(linalg.InfNorm(&sum)).To(BeNumerically("<", 1e-12))
		})

		It("requires every matrix of the fixed-frame schemes", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			_, err := task.AddFeature(p, pd, nil)
			Expect(err).NotTo(HaveOccurred())

			task.SetServo(servo.EyeToHandLcVffJe)
			_, err = task.ComputeControlLaw()
			Expect(err).To(MatchError(servo.ErrMissingJacobian))

			Expect(task.SetFixedTwist(linalg.Identity(6))).To(Succeed())
			Expect(task.SetFixedJacobian(linalg.Identity(6))).To(Succeed())
			_, err = task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())

			task.SetServo(servo.EyeToHandLcVffVeeJe)
			_, err = task.ComputeControlLaw()
			Expect(err).To(MatchError(servo.ErrMissingJacobian))
			Expect(task.SetFixedToEffectorTwist(linalg.Identity(6))).To(Succeed())
			Expect(task.SetEffectorJacobian(linalg.Identity(6))).To(Succeed())
			_, err = task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("articular schemes", func() {
		It("returns one velocity per joint through the fixed frame", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			p.BuildFrom(0.1, -0.2, 2)
			pd.BuildFrom(0, 0, 2)
			_, err := task.AddFeature(p, pd, nil)
			Expect(err).NotTo(HaveOccurred())

			// Two joints moving along the x and y axes of the effector.
			eJe := mat.NewDense(6, 2, []float64{
				1, 0,
				0, 1,
				0, 0,
				0, 0,
				0, 0,
				0, 0,
			})
			task.SetServo(servo.EyeToHandLcVffVeeJe)
			Expect(task.SetFixedTwist(linalg.Identity(6))).To(Succeed())
			Expect(task.SetFixedToEffectorTwist(linalg.Identity(6))).To(Succeed())
			Expect(task.SetEffectorJacobian(eJe)).To(Succeed())

			// L W = diag(1/Z) so qdot = -Z e.
			v, err := task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())
			expectAllNear(v, []float64{-0.2, 0.4})
			Expect(task.Rank()).To(Equal(2))
		})
	})

	Describe("secondary task", func() {
		It("needs a computed control law", func() {
			_, err := task.SecondaryTask(mat.NewVecDense(6, nil))
			Expect(err).To(MatchError(servo.ErrNotComputed))
		})

		It("projects onto the null space of the main task", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			p.BuildFrom(0.1, 0.2, 1)
			_, err := task.AddFeature(p, pd, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())

			_, err = task.SecondaryTask(mat.NewVecDense(3, nil))
			Expect(err).To(MatchError(servo.ErrDimension))

			de2dt := mat.NewVecDense(6, []float64{0, 0, 0.5, 0, 0, 0.1})
			proj, err := task.SecondaryTask(de2dt)
			Expect(err).NotTo(HaveOccurred())

			var effect mat.VecDense
			effect.MulVec(task.TaskJacobian(), proj)
			Expect(linalg.InfNorm(&effect)).To(BeNumerically("<", 1e-9))
			Expect(linalg.InfNorm(proj)).To(BeNumerically(">", 0))
		})
	})

	Describe("kill", func() {
		It("drops pairs and results but keeps the configuration", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			p.BuildFrom(0.1, 0.1, 1)
			_, err := task.AddFeature(p, pd, nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())

			task.Kill()
			Expect(task.State()).To(Equal(servo.Unconfigured))
			Expect(task.Len()).To(BeZero())
			Expect(task.Error()).To(BeNil())
			Expect(task.Scheme()).To(Equal(servo.EyeInHandCamera))
			Expect(p.X()).To(Equal(0.1))

			_, err = task.ComputeControlLaw()
			Expect(err).To(MatchError(servo.ErrNoFeatures))
		})
	})

	Describe("print", func() {
		It("summarizes configuration and pairs", func() {
			p, pd := feature.NewPoint(), feature.NewPoint()
			p.BuildFrom(0.25, 0, 2)
			_, err := task.AddFeature(p, pd, feature.PointX)
			Expect(err).NotTo(HaveOccurred())
			_, err = task.ComputeControlLaw()
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			Expect(task.Print(&buf)).To(Succeed())
			out := buf.String()
			Expect(out).To(ContainSubstring("eye-in-hand-camera"))
			Expect(out).To(ContainSubstring("current  point: x=0.25 (Z=2)"))
			Expect(out).To(ContainSubstring("error: [0.25]"))
		})
	})
})

var _ = Describe("PairError", func() {
	It("unwraps to the feature error", func() {
		err := error(&servo.PairError{Handle: 3, Wrapped: feature.ErrKindMismatch})
		Expect(errors.Is(err, feature.ErrKindMismatch)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("pair 3"))
	})
})
