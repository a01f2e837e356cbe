// Package geom implements the small fixed-size pose algebra used to turn
// raw geometric readings into feature state.
//
// Frames are named the usual robotics way: aMb is the pose of frame b
// expressed in frame a, so a point p_b maps to p_a = aMb.Apply(p_b) and
// aMc = aMb.Mul(bMc).
//
// Rotations are represented either as a [Rotation] matrix or as a [ThetaU]
// axis-angle vector θu. The conversion in both directions is stable for
// small angles and near θ = π.
package geom
