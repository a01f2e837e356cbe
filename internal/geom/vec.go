package geom

import "math"

type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

func (v Vec3) Scale(k float64) Vec3 { return Vec3{v[0] * k, v[1] * k, v[2] * k} }

func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm is the Euclidean length.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Skew returns [v]x as a rotation-shaped matrix.
func (v Vec3) Skew() Rotation {
	return Rotation{
		{0, -v[2], v[1]},
		{v[2], 0, -v[0]},
		{-v[1], v[0], 0},
	}
}

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// sinc returns sin(x)/x with the x→0 limit.
func sinc(x float64) float64 {
	if math.Abs(x) < 1e-8 {
		return 1 - x*x/6
	}
	return math.Sin(x) / x
}

// mcosc returns (1-cos(x))/x² with the x→0 limit.
func mcosc(x float64) float64 {
	if math.Abs(x) < 2.5e-4 {
		return 0.5 - x*x/24
	}
	return (1 - math.Cos(x)) / (x * x)
}

// msinc returns (1-sinc(x))/x² with the x→0 limit.
func msinc(x float64) float64 {
	if math.Abs(x) < 2.5e-4 {
		return 1.0/6 - x*x/120
	}
	return (1 - math.Sin(x)/x) / (x * x)
}

// Sinc is sin(x)/x, exported for interaction-matrix formulas.
func Sinc(x float64) float64 { return sinc(x) }
