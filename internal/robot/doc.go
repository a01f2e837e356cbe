// Package robot simulates the plants driven by a servo loop: a free-flying
// camera integrated through the exponential map and a two-joint pan-tilt
// head with joint and speed limits.
package robot
