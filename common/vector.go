package common

import (
	"github.com/chewxy/math32"
)

// Vector helpers operate on plain [3]float32 values, the same representation used for
// positions and directions throughout the engine.

// Add3 returns a + b.
func Add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub3 returns a - b.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale3 returns v scaled by s.
func Scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Dot3 returns the dot product of a and b.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a x b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length3 returns the Euclidean length of v.
func Length3(v [3]float32) float32 {
	return math32.Sqrt(Dot3(v, v))
}

// Distance3 returns the Euclidean distance between a and b.
func Distance3(a, b [3]float32) float32 {
	return Length3(Sub3(a, b))
}

// Normalize3 returns v scaled to unit length. A zero vector is returned unchanged.
func Normalize3(v [3]float32) [3]float32 {
	l := Length3(v)
	if l == 0 {
		return v
	}
	return Scale3(v, 1/l)
}

// AngleBetween3 returns the unsigned angle between a and b in radians, in the range [0, π].
// If either vector has zero length the angle is reported as π/2, matching the convention
// of treating a degenerate vector as orthogonal to everything.
//
// Parameters:
//   - a, b: the vectors to compare
//
// Returns:
//   - float32: the angle in radians
func AngleBetween3(a, b [3]float32) float32 {
	denom := math32.Sqrt(Dot3(a, a) * Dot3(b, b))
	if denom == 0 {
		return math32.Pi / 2
	}
	theta := Dot3(a, b) / denom
	if theta > 1 {
		theta = 1
	} else if theta < -1 {
		theta = -1
	}
	return math32.Acos(theta)
}

// Ray is a half-line in 3D space. Direction is expected to be normalized.
type Ray struct {
	Origin    [3]float32
	Direction [3]float32
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) [3]float32 {
	return Add3(r.Origin, Scale3(r.Direction, t))
}

// Transform returns the ray mapped through a 4x4 column-major matrix.
// The direction is transformed without translation and is not renormalized, so the
// ray parameter t keeps its meaning across rigid transforms.
//
// Parameters:
//   - m: the matrix to apply (16 elements, column-major)
//
// Returns:
//   - Ray: the transformed ray
func (r Ray) Transform(m []float32) Ray {
	return Ray{
		Origin:    TransformPoint4(m, r.Origin),
		Direction: TransformDirection4(m, r.Direction),
	}
}
