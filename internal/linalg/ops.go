package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// StackRows concatenates blocks vertically in argument order. All blocks
// must share the same column count; nil blocks are skipped.
func StackRows(blocks ...mat.Matrix) *mat.Dense {
	rows, cols := 0, -1
	for _, b := range blocks {
		if b == nil {
			continue
		}
		r, c := b.Dims()
		if cols == -1 {
			cols = c
		} else if c != cols {
			panic(mat.ErrShape)
		}
		rows += r
	}
	if rows == 0 || cols <= 0 {
		return &mat.Dense{}
	}

	out := mat.NewDense(rows, cols, nil)
	at := 0
	for _, b := range blocks {
		if b == nil {
			continue
		}
		r, _ := b.Dims()
		out.Slice(at, at+r, 0, cols).(*mat.Dense).Copy(b)
		at += r
	}
	return out
}

// StackVec concatenates vectors in argument order.
func StackVec(parts ...mat.Vector) *mat.VecDense {
	n := 0
	for _, p := range parts {
		if p != nil {
			n += p.Len()
		}
	}
	if n == 0 {
		return &mat.VecDense{}
	}

	out := mat.NewVecDense(n, nil)
	at := 0
	for _, p := range parts {
		if p == nil {
			continue
		}
		for i := 0; i < p.Len(); i++ {
			out.SetVec(at, p.AtVec(i))
			at++
		}
	}
	return out
}

// Skew returns [v]x, the matrix with [v]x*w = v × w.
func Skew(v [3]float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -v[2], v[1],
		v[2], 0, -v[0],
		-v[1], v[0], 0,
	})
}

// Identity returns the n×n identity matrix.
func Identity(n int) *mat.Dense {
	d := make([]float64, n*n)
	for i := 0; i < n; i++ {
		d[i*n+i] = 1
	}
	return mat.NewDense(n, n, d)
}

// InfNorm is the largest absolute component of v, 0 for an empty vector.
func InfNorm(v mat.Vector) float64 {
	if v == nil {
		return 0
	}
	m := 0.0
	for i := 0; i < v.Len(); i++ {
		m = math.Max(m, math.Abs(v.AtVec(i)))
	}
	return m
}

// Norm is the Euclidean norm of v, 0 for an empty vector.
func Norm(v mat.Vector) float64 {
	if v == nil || v.Len() == 0 {
		return 0
	}
	return mat.Norm(v, 2)
}

// Values copies v into a plain slice.
func Values(v mat.Vector) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
