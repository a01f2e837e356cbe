package geom

import "math"

// Rotation is a 3x3 rotation matrix in row-major order.
type Rotation [3][3]float64

// Identity returns the identity rotation.
func Identity() Rotation {
	return Rotation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func (r Rotation) Mul(o Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += r[i][k] * o[k][j]
			}
		}
	}
	return out
}

func (r Rotation) Apply(v Vec3) Vec3 {
	return Vec3{
		r[0][0]*v[0] + r[0][1]*v[1] + r[0][2]*v[2],
		r[1][0]*v[0] + r[1][1]*v[1] + r[1][2]*v[2],
		r[2][0]*v[0] + r[2][1]*v[1] + r[2][2]*v[2],
	}
}

func (r Rotation) Transpose() Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[j][i]
		}
	}
	return out
}

func (r Rotation) Add(o Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[i][j] + o[i][j]
		}
	}
	return out
}

func (r Rotation) Scale(k float64) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[i][j] * k
		}
	}
	return out
}

// ThetaU extracts the axis-angle vector of r.
func (r Rotation) ThetaU() ThetaU {
	const minimum = 1e-4

	s := (r[1][0]-r[0][1])*(r[1][0]-r[0][1]) +
		(r[2][0]-r[0][2])*(r[2][0]-r[0][2]) +
		(r[2][1]-r[1][2])*(r[2][1]-r[1][2])
	s = math.Sqrt(s) / 2
	c := (r[0][0] + r[1][1] + r[2][2] - 1) / 2
	theta := math.Atan2(s, c)

	if 1+c > minimum {
		sc := sinc(theta)
		return ThetaU{
			(r[2][1] - r[1][2]) / (2 * sc),
			(r[0][2] - r[2][0]) / (2 * sc),
			(r[1][0] - r[0][1]) / (2 * sc),
		}
	}

	// theta close to pi: recover the axis from the symmetric part
	var x, y, z float64
	if r[0][0]-c > minimum {
		x = math.Sqrt((r[0][0] - c) / (1 - c))
	}
	if r[1][1]-c > minimum {
		y = math.Sqrt((r[1][1] - c) / (1 - c))
	}
	if r[2][2]-c > minimum {
		z = math.Sqrt((r[2][2] - c) / (1 - c))
	}

	switch {
	case x > minimum:
		if r[2][1]-r[1][2] < 0 {
			x = -x
		}
		if sign(x)*sign(y)*(r[0][1]+r[1][0]) < 0 {
			y = -y
		}
		if sign(x)*sign(z)*(r[0][2]+r[2][0]) < 0 {
			z = -z
		}
	case y > minimum:
		if r[0][2]-r[2][0] < 0 {
			y = -y
		}
		if sign(y)*sign(z)*(r[1][2]+r[2][1]) < 0 {
			z = -z
		}
	case z > minimum:
		if r[1][0]-r[0][1] < 0 {
			z = -z
		}
	}

	return ThetaU{theta * x, theta * y, theta * z}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// ThetaU is an axis-angle rotation vector θu with |u| = 1.
type ThetaU Vec3

// Angle returns θ.
func (tu ThetaU) Angle() float64 { return Vec3(tu).Norm() }

// Axis returns u, or the zero vector when θ = 0.
func (tu ThetaU) Axis() Vec3 {
	theta := tu.Angle()
	if theta < 1e-12 {
		return Vec3{}
	}
	return Vec3(tu).Scale(1 / theta)
}

// Rotation builds the matrix exp([θu]x) by the Rodrigues formula.
func (tu ThetaU) Rotation() Rotation {
	theta := tu.Angle()
	sk := Vec3(tu).Skew()
	return Identity().Add(sk.Scale(sinc(theta))).Add(sk.Mul(sk).Scale(mcosc(theta)))
}
