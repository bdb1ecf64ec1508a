package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

func assertVec3InDelta(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "component %d: want %v, got %v", i, want, got)
	}
}

func TestComposeMatrixMatchesQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle([3]float32{0, 1, 0}, 0.7).Mul(QuatFromAxisAngle([3]float32{0, 0, 1}, -1.1))
	pos := [3]float32{1, 2, 3}

	var m [16]float32
	ComposeMatrix(m[:], pos, q, [3]float32{1, 1, 1})

	p := [3]float32{0.5, -2, 4}
	want := Add3(q.Rotate(p), pos)
	assertVec3InDelta(t, want, TransformPoint4(m[:], p))
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, prod [16]float32
	ComposeMatrix(m[:], [3]float32{-4, 10, 2}, QuatFromAxisAngle([3]float32{1, 1, 0}, 0.9), [3]float32{2, 2, 2})

	require.True(t, Invert4(inv[:], m[:]))
	Mul4(prod[:], m[:], inv[:])

	var id [16]float32
	Identity(id[:])
	for i := range id {
		assert.InDelta(t, id[i], prod[i], tol, "element %d", i)
	}
}

func TestInvert4Singular(t *testing.T) {
	var m, out [16]float32
	out[0] = 42
	assert.False(t, Invert4(out[:], m[:]))
	assert.Equal(t, float32(42), out[0], "output must be untouched for singular input")
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	var m [16]float32
	ComposeMatrix(m[:], [3]float32{100, 100, 100}, QuatIdentity(), [3]float32{1, 1, 1})
	assertVec3InDelta(t, [3]float32{0, 1, 0}, TransformDirection4(m[:], [3]float32{0, 1, 0}))
}

func TestPerspectiveUnprojectNearFar(t *testing.T) {
	var proj, view, vp, inv [16]float32
	Perspective(proj[:], math32.Pi/2, 1, 0.1, 100)
	LookAt(view[:], 0, 0, 10, 0, 0, 0, 0, 1, 0)
	Mul4(vp[:], proj[:], view[:])
	require.True(t, Invert4(inv[:], vp[:]))

	near := TransformPoint4(inv[:], [3]float32{0, 0, 0})
	far := TransformPoint4(inv[:], [3]float32{0, 0, 1})

	assertVec3InDelta(t, [3]float32{0, 0, 9.9}, near)
	dir := Normalize3(Sub3(far, near))
	assertVec3InDelta(t, [3]float32{0, 0, -1}, dir)
}

func TestFrustumSphereOutside(t *testing.T) {
	var proj, view, vp [16]float32
	Perspective(proj[:], math32.Pi/2, 1, 0.1, 100)
	LookAt(view[:], 0, 0, 10, 0, 0, 0, 0, 1, 0)
	Mul4(vp[:], proj[:], view[:])
	f := ExtractFrustumFromMatrix(vp[:])

	assert.False(t, f.SphereOutside([3]float32{0, 0, 0}, 1))
	assert.True(t, f.SphereOutside([3]float32{0, 0, 50}, 1), "behind the camera")
	assert.True(t, f.SphereOutside([3]float32{500, 0, 0}, 1), "far to the right")
	assert.False(t, f.SphereOutside([3]float32{12, 0, 0}, 5), "straddling the right plane")
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	b := SliceToBytes([]float32{1, 2, 3})
	assert.Len(t, b, 12)

	v := struct{ A, B uint32 }{1, 2}
	assert.Len(t, StructToBytes(&v), 8)
}
