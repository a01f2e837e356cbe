// Package viz renders servo runs in the terminal.
//
// The live view is a Bubble Tea program that steps an experiment one
// iteration at a time:
//
//   - [Model]: the live servo loop with the image plane, the camera
//     trajectory and the error norm history
//   - [Menu]: scenario selection and gain/pose editing before a run
//   - [Canvas]: Braille-based pixel canvas shared by both views
//
// # Key Bindings
//
//	Space - Pause/Resume the loop
//	N     - Single step while paused
//	R     - Restart from the initial pose
//	V     - Toggle image plane / 3D scene
//	< >   - Iterations per frame
//	x y   - Rotate the 3D scene (shift reverses)
//	+ -   - Zoom the 3D scene
//	P     - Save the canvas as SVG
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
