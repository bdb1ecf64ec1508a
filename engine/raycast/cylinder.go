package raycast

import (
	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/chewxy/math32"
)

const epsilon = 1e-6

// IntersectCylinder intersects a ray with a capped, tapered cylinder whose base sits on the
// origin and whose axis runs along +Y. Both are expressed in the same (local) space.
// The returned t is the ray parameter of the nearest intersection with t >= 0.
//
// Parameters:
//   - ray: the ray in the cylinder's local space (direction need not be unit length)
//   - c: the cylinder shape
//
// Returns:
//   - float32: the ray parameter of the nearest hit
//   - bool: false if the ray misses
func IntersectCylinder(ray common.Ray, c node.Cylinder) (float32, bool) {
	if c.Height <= 0 {
		return 0, false
	}
	o, d := ray.Origin, ray.Direction

	best := math32.Inf(1)
	consider := func(t float32) {
		if t >= 0 && t < best {
			best = t
		}
	}

	// Lateral surface: x² + z² = (rb + k·y)² for y in [0, h].
	k := (c.RadiusTop - c.RadiusBottom) / c.Height
	r0 := c.RadiusBottom + k*o[1]
	rd := k * d[1]

	a := d[0]*d[0] + d[2]*d[2] - rd*rd
	b := 2 * (o[0]*d[0] + o[2]*d[2] - r0*rd)
	cc := o[0]*o[0] + o[2]*o[2] - r0*r0

	onBody := func(t float32) bool {
		y := o[1] + t*d[1]
		return y >= 0 && y <= c.Height && r0+rd*t >= 0
	}

	if math32.Abs(a) < epsilon {
		if math32.Abs(b) > epsilon {
			if t := -cc / b; onBody(t) {
				consider(t)
			}
		}
	} else if disc := b*b - 4*a*cc; disc >= 0 {
		sq := math32.Sqrt(disc)
		for _, t := range [2]float32{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
			if onBody(t) {
				consider(t)
			}
		}
	}

	// Caps.
	if math32.Abs(d[1]) > epsilon {
		for _, cp := range [2]struct{ y, r float32 }{{0, c.RadiusBottom}, {c.Height, c.RadiusTop}} {
			t := (cp.y - o[1]) / d[1]
			x := o[0] + t*d[0]
			z := o[2] + t*d[2]
			if x*x+z*z <= cp.r*cp.r {
				consider(t)
			}
		}
	}

	if math32.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// intersectSphere reports whether the ray passes within radius of center, ignoring hits
// entirely behind the origin.
func intersectSphere(ray common.Ray, center [3]float32, radius float32) bool {
	oc := common.Sub3(ray.Origin, center)
	a := common.Dot3(ray.Direction, ray.Direction)
	if a == 0 {
		return false
	}
	b := common.Dot3(oc, ray.Direction)
	c := common.Dot3(oc, oc) - radius*radius
	if c <= 0 {
		return true
	}
	if b > 0 {
		return false
	}
	return b*b-a*c >= 0
}
