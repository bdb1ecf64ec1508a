package common

import (
	"github.com/chewxy/math32"
)

// Quat is a rotation quaternion stored as (x, y, z, w).
type Quat [4]float32

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromAxisAngle builds a rotation of angle radians around axis.
// The axis is normalized before use.
//
// Parameters:
//   - axis: rotation axis
//   - angle: rotation angle in radians (counter-clockwise looking down the axis)
//
// Returns:
//   - Quat: the rotation quaternion
func QuatFromAxisAngle(axis [3]float32, angle float32) Quat {
	a := Normalize3(axis)
	s := math32.Sin(angle / 2)
	return Quat{a[0] * s, a[1] * s, a[2] * s, math32.Cos(angle / 2)}
}

// Mul returns the Hamilton product q * r. Applied to a vector, r rotates first.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q[3]*r[0] + q[0]*r[3] + q[1]*r[2] - q[2]*r[1],
		q[3]*r[1] - q[0]*r[2] + q[1]*r[3] + q[2]*r[0],
		q[3]*r[2] + q[0]*r[1] - q[1]*r[0] + q[2]*r[3],
		q[3]*r[3] - q[0]*r[0] - q[1]*r[1] - q[2]*r[2],
	}
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// Normalize returns q scaled to unit length. A zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l == 0 {
		return QuatIdentity()
	}
	inv := 1 / l
	return Quat{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v [3]float32) [3]float32 {
	u := [3]float32{q[0], q[1], q[2]}
	// v' = v + 2w(u x v) + 2(u x (u x v))
	t := Scale3(Cross3(u, v), 2)
	return Add3(Add3(v, Scale3(t, q[3])), Cross3(u, t))
}

// ApproxEqual reports whether q and r describe the same rotation within tol,
// treating q and -q as equal.
func (q Quat) ApproxEqual(r Quat, tol float32) bool {
	dot := q[0]*r[0] + q[1]*r[1] + q[2]*r[2] + q[3]*r[3]
	return math32.Abs(math32.Abs(dot)-1) <= tol
}
