package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultTolerance is the relative singular value threshold used when a
// caller does not pick one.
const DefaultTolerance = 1e-6

// PseudoInverse returns the Moore-Penrose inverse of a and its numerical
// rank. Singular values σ with σ <= tol*σmax are treated as zero. A
// non-positive tol selects DefaultTolerance.
func PseudoInverse(a mat.Matrix, tol float64) (*mat.Dense, int) {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return &mat.Dense{}, 0
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}

	pinv := mat.NewDense(c, r, nil)
	if !IsFinite(a) {
		return pinv, 0
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return pinv, 0
	}

	values := svd.Values(nil)
	if len(values) == 0 || values[0] == 0 {
		return pinv, 0
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	threshold := tol * values[0]
	rank := 0
	for k, sv := range values {
		if sv <= threshold {
			continue
		}
		rank++
		inv := 1 / sv
		for i := 0; i < c; i++ {
			vik := v.At(i, k) * inv
			if vik == 0 {
				continue
			}
			for j := 0; j < r; j++ {
				pinv.Set(i, j, pinv.At(i, j)+vik*u.At(j, k))
			}
		}
	}

	return pinv, rank
}

// Rank returns the numerical rank of a under the same truncation rule as
// PseudoInverse.
func Rank(a mat.Matrix, tol float64) int {
	_, rank := PseudoInverse(a, tol)
	return rank
}

// IsFinite reports whether every element of a is neither NaN nor Inf.
func IsFinite(a mat.Matrix) bool {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
