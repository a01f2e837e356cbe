// Package analysis characterizes stored servo runs.
//
//   - [DecayRate]: exponential decay rate of the error norm, to compare with λ
//   - [Overshoot]: per-component overshoot past zero
//   - [PowerSpectrum], [DominantFrequency]: oscillation in a velocity or error signal
//   - [NewPortrait]: two error components against each other, which for
//     point features is the image trajectory relative to the goal
//
// A well-tuned exponential law shows a decay rate close to λ, no overshoot
// and no dominant frequency:
//
//	r := analysis.Analyze(result, dt)
//	fmt.Println(r.DecayRate, r.MaxOvershoot)
package analysis
