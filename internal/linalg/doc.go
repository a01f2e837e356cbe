// Package linalg is the shared numeric kernel beneath the feature and servo
// layers.
//
// Every function is stateless: operands are passed explicitly and a fresh
// result is returned. Matrices are gonum [mat.Dense] values.
//
//   - [PseudoInverse]: Moore-Penrose inverse by truncated SVD
//   - [StackRows], [StackVec]: vertical concatenation in argument order
//   - [Skew]: the 3x3 cross-product matrix of a vector
//
// # Rank deficiency
//
// Singular values at or below tol*σmax are dropped from the inverse, so a
// rank-deficient or near-singular matrix yields a bounded minimum-norm
// solution instead of diverging. Non-finite input produces a zero inverse of
// rank 0.
package linalg
