package torsor

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Jacobian builds the 6x6 operator carrying a torsor across the offset r to
// the measurement point, with both frames axis-aligned. Translations pass
// through unchanged; a rotation produces an extra translation proportional to
// the lever arm:
//
//	J = | I3  S |        | 0    rz  -ry |
//	    | 0  I3 |,  S =  | -rz  0    rx |
//	                     | ry  -rx   0  |
func Jacobian(r [3]float64) *mat.Dense {
	j := identity6()
	setLeverArm(j, r)
	return j
}

// JacobianRotated builds the transform for a contributor whose frame is
// rotated by rot relative to the measurement frame:
//
//	J = | R  S*R |
//	    | 0   R  |
func JacobianRotated(r [3]float64, rot *mat.Dense) *mat.Dense {
	s := leverArmMatrix(r)

	var sr mat.Dense
	sr.Mul(s, rot)

	j := mat.NewDense(NumDOF, NumDOF, nil)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			j.Set(row, col, rot.At(row, col))
			j.Set(row, col+3, sr.At(row, col))
			j.Set(row+3, col+3, rot.At(row, col))
		}
	}
	return j
}

// RotationBetween returns the 3x3 rotation carrying direction from onto
// direction to (Rodrigues formula). Zero vectors and already-aligned axes
// yield the identity; opposite axes yield a half-turn about a perpendicular.
func RotationBetween(from, to [3]float64) *mat.Dense {
	f, okF := normalize3(from)
	t, okT := normalize3(to)
	if !okF || !okT {
		return identity3()
	}

	c := dot3(f, t)
	switch {
	case c > 1-1e-12:
		return identity3()
	case c < -1+1e-12:
		// Half-turn about any axis perpendicular to f
		perp := cross3(f, [3]float64{1, 0, 0})
		if p, ok := normalize3(perp); ok {
			perp = p
		} else {
			perp, _ = normalize3(cross3(f, [3]float64{0, 1, 0}))
		}
		return rotationAboutAxis(perp, math.Pi)
	}

	k := cross3(f, t)
	kx := mat.NewDense(3, 3, []float64{
		0, -k[2], k[1],
		k[2], 0, -k[0],
		-k[1], k[0], 0,
	})

	// R = I + K + K^2 * (1-c)/s^2, with s^2 = |k|^2
	s2 := dot3(k, k)
	var kx2 mat.Dense
	kx2.Mul(kx, kx)

	r := identity3()
	r.Add(r, kx)
	kx2.Scale((1-c)/s2, &kx2)
	r.Add(r, &kx2)
	return r
}

func rotationAboutAxis(axis [3]float64, angle float64) *mat.Dense {
	c, s := math.Cos(angle), math.Sin(angle)
	x, y, z := axis[0], axis[1], axis[2]
	t := 1 - c
	return mat.NewDense(3, 3, []float64{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c,
	})
}

// ProjectionVector returns the 1x6 row extracting the scalar deviation along
// a direction: the translational components projected on the unit direction,
// rotations ignored. A degenerate direction falls back to +X.
func ProjectionVector(direction [3]float64) *mat.VecDense {
	d, ok := normalize3(direction)
	if !ok {
		d = [3]float64{1, 0, 0}
	}
	return mat.NewVecDense(NumDOF, []float64{d[0], d[1], d[2], 0, 0, 0})
}

func identity3() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func identity6() *mat.Dense {
	m := mat.NewDense(NumDOF, NumDOF, nil)
	for i := 0; i < NumDOF; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func leverArmMatrix(r [3]float64) *mat.Dense {
	rx, ry, rz := r[0], r[1], r[2]
	return mat.NewDense(3, 3, []float64{
		0, rz, -ry,
		-rz, 0, rx,
		ry, -rx, 0,
	})
}

func setLeverArm(j *mat.Dense, r [3]float64) {
	rx, ry, rz := r[0], r[1], r[2]
	j.Set(0, 4, rz)
	j.Set(0, 5, -ry)
	j.Set(1, 3, -rz)
	j.Set(1, 5, rx)
	j.Set(2, 3, ry)
	j.Set(2, 4, -rx)
}

func normalize3(v [3]float64) ([3]float64, bool) {
	n := math.Sqrt(dot3(v, v))
	if n < 1e-10 {
		return v, false
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}, true
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
