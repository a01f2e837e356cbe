// Package servo implements the visual servoing task: it stacks registered
// (current, desired) feature pairs into one interaction matrix and error
// vector and solves the control law
//
//	v = -λ (L W)⁺ (s - s*)
//
// once per control cycle. W is the frame-change Jacobian selected by the
// [Scheme]; it is the identity for [EyeInHandCamera].
//
// # Lifecycle
//
//	task := servo.NewTask()
//	task.SetServo(servo.EyeInHandCamera)
//	task.SetInteractionMatrixType(servo.Current, servo.PseudoInverse)
//	task.SetLambda(servo.ConstantGain(0.5))
//	h, err := task.AddFeature(s, sd, feature.All)
//	for {
//	    s.BuildFrom(...)                    // caller refreshes features
//	    v, err := task.ComputeControlLaw()  // send v to the robot
//	}
//	task.Kill()
//
// Features stay owned by the caller. The task keeps one registration per
// [Handle] and never mutates the features it reads.
//
// # Thread Safety
//
// A Task is NOT safe for concurrent use.
package servo
