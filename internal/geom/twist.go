package geom

import "gonum.org/v1/gonum/mat"

// Twist returns the 6x6 velocity twist matrix aVb that maps a screw
// (v, ω) expressed in frame b to frame a:
//
//	aVb = [ aRb  [t]x aRb ]
//	      [  0      aRb   ]
func Twist(aMb Homogeneous) *mat.Dense {
	tr := aMb.T.Skew().Mul(aMb.R)
	out := mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, aMb.R[i][j])
			out.Set(i, j+3, tr[i][j])
			out.Set(i+3, j+3, aMb.R[i][j])
		}
	}
	return out
}

// Direct is the exponential map of the velocity screw v = (v, ω) applied
// during dt. The result is the displacement of the frame expressed in its
// own initial position, so a camera moving at v ends at cMo' = Direct(v,
// dt).Inverse().Mul(cMo).
func Direct(v [6]float64, dt float64) Homogeneous {
	vt := Vec3{v[0] * dt, v[1] * dt, v[2] * dt}
	u := Vec3{v[3] * dt, v[4] * dt, v[5] * dt}

	theta := u.Norm()
	r := ThetaU(u).Rotation()

	sc, mc, ms := sinc(theta), mcosc(theta), msinc(theta)
	sk := u.Skew()
	var w Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			w[i][j] = mc*sk[i][j] + ms*u[i]*u[j]
		}
		w[i][i] += sc
	}

	return Homogeneous{R: r, T: w.Apply(vt)}
}
