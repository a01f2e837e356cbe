package linalg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPseudoInverseFullRank(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 0, 0, 4})
	p, rank := PseudoInverse(a, 0)

	require.Equal(t, 2, rank)
	assert.InDelta(t, 0.5, p.At(0, 0), 1e-12)
	assert.InDelta(t, 0.25, p.At(1, 1), 1e-12)
	assert.InDelta(t, 0.0, p.At(0, 1), 1e-12)
}

func TestPseudoInverseWide(t *testing.T) {
	// [I3 0] has pseudo-inverse [I3; 0].
	a := mat.NewDense(3, 6, []float64{
		1, 0, 0, 0, 0, 0,
		0, 1, 0, 0, 0, 0,
		0, 0, 1, 0, 0, 0,
	})
	p, rank := PseudoInverse(a, DefaultTolerance)

	require.Equal(t, 3, rank)
	r, c := p.Dims()
	require.Equal(t, 6, r)
	require.Equal(t, 3, c)
	for i := 0; i < 6; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, p.At(i, j), 1e-12, "(%d,%d)", i, j)
		}
	}
}

func TestPseudoInverseRankDeficient(t *testing.T) {
	a := mat.NewDense(2, 6, []float64{
		-1, 0, 0.1, 0, -1.01, 0.2,
		-1, 0, 0.1, 0, -1.01, 0.2,
	})
	p, rank := PseudoInverse(a, DefaultTolerance)

	assert.Equal(t, 1, rank)
	assert.True(t, IsFinite(p))

	// Penrose condition A A+ A = A holds for the truncated inverse.
	var ap, apa mat.Dense
	ap.Mul(a, p)
	apa.Mul(&ap, a)
	assert.True(t, mat.EqualApprox(&apa, a, 1e-10))
}

func TestPseudoInverseTruncatesTinySingularValues(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1e-12})
	p, rank := PseudoInverse(a, 1e-6)

	assert.Equal(t, 1, rank)
	assert.InDelta(t, 0.0, p.At(1, 1), 1e-12)

	_, full := PseudoInverse(a, 1e-15)
	assert.Equal(t, 2, full)
}

func TestPseudoInverseDegenerateInput(t *testing.T) {
	tests := []struct {
		name string
		a    *mat.Dense
	}{
		{"zero", mat.NewDense(2, 3, nil)},
		{"nan", mat.NewDense(1, 2, []float64{math.NaN(), 1})},
		{"inf", mat.NewDense(1, 2, []float64{math.Inf(1), 1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, rank := PseudoInverse(tt.a, 0)
			assert.Equal(t, 0, rank)
			assert.True(t, IsFinite(p))
			r, c := p.Dims()
			ar, ac := tt.a.Dims()
			assert.Equal(t, ac, r)
			assert.Equal(t, ar, c)
		})
	}
}

func TestStackRows(t *testing.T) {
	a := mat.NewDense(1, 2, []float64{1, 2})
	b := mat.NewDense(2, 2, []float64{3, 4, 5, 6})

	s := StackRows(a, nil, b)
	r, c := s.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, s.RawMatrix().Data)

	assert.Panics(t, func() { StackRows(a, mat.NewDense(1, 3, nil)) })
}

func TestStackVec(t *testing.T) {
	v := StackVec(mat.NewVecDense(2, []float64{1, 2}), mat.NewVecDense(1, []float64{3}))
	assert.Equal(t, []float64{1, 2, 3}, Values(v))
	assert.InDelta(t, 3.0, InfNorm(v), 0)
	assert.InDelta(t, math.Sqrt(14), Norm(v), 1e-12)
}

func TestSkew(t *testing.T) {
	s := Skew([3]float64{1, 2, 3})
	w := mat.NewVecDense(3, []float64{4, 5, 6})

	var out mat.VecDense
	out.MulVec(s, w)
	// (1,2,3) x (4,5,6) = (-3, 6, -3)
	assert.Equal(t, []float64{-3, 6, -3}, Values(&out))
}
