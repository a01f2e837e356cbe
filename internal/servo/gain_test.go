package servo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vservo/internal/servo"
)

var _ = Describe("Gain", func() {
	It("keeps a constant value", func() {
		g := servo.ConstantGain(0.7)
		Expect(g.Value(0)).To(Equal(0.7))
		Expect(g.Value(100)).To(Equal(0.7))
	})

	DescribeTable("adaptive law",
		func(x, lo, hi float64) {
			g := servo.NewAdaptiveGain(4, 0.4, 30)
			Expect(g.Value(x)).To(BeNumerically(">=", lo))
			Expect(g.Value(x)).To(BeNumerically("<=", hi))
		},
		Entry("at zero error", 0.0, 4.0, 4.0),
		Entry("at a small error", 0.01, 0.4, 4.0),
		Entry("at a large error", 1e3, 0.4, 0.4+1e-9),
	)

	It("has the requested slope at zero", func() {
		g := servo.NewAdaptiveGain(4, 0.4, 30)
		h := 1e-7
		slope := (g.Value(h) - g.Value(0)) / h
		Expect(slope).To(BeNumerically("~", -30, 1e-3))
	})

	It("degenerates to a constant when both limits agree", func() {
		g := servo.NewAdaptiveGain(1, 1, 30)
		Expect(g.Value(0.5)).To(Equal(1.0))
	})
})

var _ = Describe("Scheme", func() {
	DescribeTable("round-trips names",
		func(s servo.Scheme) {
			parsed, err := servo.ParseScheme(s.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(s))
		},
		Entry("camera", servo.EyeInHandCamera),
		Entry("eye-in-hand joints", servo.EyeInHandLcVeeJe),
		Entry("eye-to-hand joints", servo.EyeToHandLcVeeJe),
		Entry("eye-to-hand fixed twist", servo.EyeToHandLcVffVeeJe),
		Entry("eye-to-hand fixed jacobian", servo.EyeToHandLcVffJe),
	)

	It("rejects unknown names", func() {
		_, err := servo.ParseScheme("hand-in-eye")
		Expect(err).To(HaveOccurred())
		_, err = servo.ParseScheme("none")
		Expect(err).To(HaveOccurred())
	})

	It("classifies schemes", func() {
		Expect(servo.EyeInHandCamera.Articular()).To(BeFalse())
		Expect(servo.EyeToHandLcVffJe.Articular()).To(BeTrue())
		Expect(servo.EyeToHandLcVeeJe.EyeInHand()).To(BeFalse())
	})

	It("parses interaction modes and inversions", func() {
		m, err := servo.ParseInteractionMode("mean")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(servo.Mean))
		inv, err := servo.ParseInversion("transpose")
		Expect(err).NotTo(HaveOccurred())
		Expect(inv).To(Equal(servo.Transpose))
	})
})
