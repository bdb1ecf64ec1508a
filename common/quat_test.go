package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestQuatRotateY(t *testing.T) {
	// A positive rotation about +Y carries +X toward -Z (right-handed).
	q := QuatFromAxisAngle([3]float32{0, 1, 0}, math32.Pi/2)
	assertVec3InDelta(t, [3]float32{0, 0, -1}, q.Rotate([3]float32{1, 0, 0}))
}

func TestQuatRotateZ(t *testing.T) {
	q := QuatFromAxisAngle([3]float32{0, 0, 1}, math32.Pi/2)
	assertVec3InDelta(t, [3]float32{-1, 0, 0}, q.Rotate([3]float32{0, 1, 0}))
}

func TestQuatMulOrder(t *testing.T) {
	// (a * b) applied to v equals a applied to (b applied to v).
	a := QuatFromAxisAngle([3]float32{0, 1, 0}, 0.4)
	b := QuatFromAxisAngle([3]float32{0, 0, 1}, 1.2)
	v := [3]float32{0.3, 1, -0.2}

	assertVec3InDelta(t, a.Rotate(b.Rotate(v)), a.Mul(b).Rotate(v))
}

func TestQuatConjugateUndoes(t *testing.T) {
	q := QuatFromAxisAngle([3]float32{1, 2, 3}, 2.2)
	assert.True(t, q.Mul(q.Conjugate()).ApproxEqual(QuatIdentity(), tol))
}

func TestQuatNormalizeZero(t *testing.T) {
	assert.Equal(t, QuatIdentity(), Quat{}.Normalize())
}

func TestAngleBetween3(t *testing.T) {
	x := [3]float32{1, 0, 0}
	assert.InDelta(t, 0, AngleBetween3(x, [3]float32{3, 0, 0}), tol)
	assert.InDelta(t, math32.Pi, AngleBetween3(x, [3]float32{-2, 0, 0}), tol)
	assert.InDelta(t, math32.Pi/2, AngleBetween3(x, [3]float32{0, 0, 5}), tol)
	assert.InDelta(t, math32.Pi/2, AngleBetween3(x, [3]float32{}), tol)
}

func TestRayTransform(t *testing.T) {
	var m [16]float32
	ComposeMatrix(m[:], [3]float32{0, 5, 0}, QuatIdentity(), [3]float32{1, 1, 1})

	r := Ray{Origin: [3]float32{1, 0, 0}, Direction: [3]float32{0, 0, 1}}.Transform(m[:])
	assertVec3InDelta(t, [3]float32{1, 5, 0}, r.Origin)
	assertVec3InDelta(t, [3]float32{1, 5, 2}, r.At(2))
}
