// Package mesh builds the triangle meshes the renderer draws and packs scene nodes into
// per-instance GPU data. It has no GPU dependency so it can be used and tested headlessly.
package mesh

import (
	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/chewxy/math32"
)

// Vertex is a position and normal, laid out as six consecutive float32 values.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Instance is the per-instance data uploaded next to a mesh: a column-major model matrix and an RGBA color.
type Instance struct {
	Model [16]float32
	Color [4]float32
}

// Mesh is an indexed triangle list with counter-clockwise front faces.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Cylinder builds a capped, possibly tapered cylinder whose base sits at the origin and
// which extends along +Y.
//
// Parameters:
//   - radiusTop: radius at y = height
//   - radiusBottom: radius at y = 0
//   - height: length along Y
//   - segments: number of sides, at least 3
//
// Returns:
//   - Mesh: the cylinder mesh
func Cylinder(radiusTop, radiusBottom, height float32, segments int) Mesh {
	segments = max(segments, 3)
	var m Mesh

	slope := (radiusBottom - radiusTop) / height
	for i := 0; i <= segments; i++ {
		sin, cos := math32.Sincos(float32(i) / float32(segments) * 2 * math32.Pi)
		n := common.Normalize3([3]float32{cos, slope, sin})
		m.Vertices = append(m.Vertices,
			Vertex{Position: [3]float32{radiusBottom * cos, 0, radiusBottom * sin}, Normal: n},
			Vertex{Position: [3]float32{radiusTop * cos, height, radiusTop * sin}, Normal: n},
		)
	}
	for i := range uint32(segments) {
		b0, t0 := 2*i, 2*i+1
		b1, t1 := b0+2, t0+2
		m.Indices = append(m.Indices, b0, t0, b1, b1, t0, t1)
	}

	m.cap(radiusBottom, 0, [3]float32{0, -1, 0}, segments)
	m.cap(radiusTop, height, [3]float32{0, 1, 0}, segments)
	return m
}

// cap appends a flat disc at height y facing along normal.
func (m *Mesh) cap(radius, y float32, normal [3]float32, segments int) {
	center := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{0, y, 0}, Normal: normal})
	for i := 0; i <= segments; i++ {
		sin, cos := math32.Sincos(float32(i) / float32(segments) * 2 * math32.Pi)
		m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{radius * cos, y, radius * sin}, Normal: normal})
	}
	for i := range uint32(segments) {
		a, b := center+1+i, center+2+i
		if normal[1] > 0 {
			m.Indices = append(m.Indices, center, b, a)
		} else {
			m.Indices = append(m.Indices, center, a, b)
		}
	}
}

// Sphere builds a UV sphere centered on the origin.
//
// Parameters:
//   - radius: the sphere radius
//   - rings: latitude bands, at least 2
//   - segments: longitude slices, at least 3
//
// Returns:
//   - Mesh: the sphere mesh
func Sphere(radius float32, rings, segments int) Mesh {
	rings, segments = max(rings, 2), max(segments, 3)
	var m Mesh

	for i := 0; i <= rings; i++ {
		sinPhi, cosPhi := math32.Sincos(float32(i) / float32(rings) * math32.Pi)
		for j := 0; j <= segments; j++ {
			sinTheta, cosTheta := math32.Sincos(float32(j) / float32(segments) * 2 * math32.Pi)
			n := [3]float32{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			m.Vertices = append(m.Vertices, Vertex{Position: common.Scale3(n, radius), Normal: n})
		}
	}

	stride := uint32(segments + 1)
	for i := range uint32(rings) {
		for j := range uint32(segments) {
			a := i*stride + j
			b := a + stride
			c, d := a+1, b+1
			m.Indices = append(m.Indices, b, a, d, d, a, c)
		}
	}
	return m
}

// NodeInstance packs a node's world transform, stretched by scale, into an Instance.
//
// Parameters:
//   - n: the node
//   - scale: extra scale applied in the node's local frame before its world transform
//   - color: RGBA color
//
// Returns:
//   - Instance: the packed instance
func NodeInstance(n node.Node, scale [3]float32, color [4]float32) Instance {
	var local [16]float32
	common.ComposeMatrix(local[:], [3]float32{}, common.QuatIdentity(), scale)
	world := n.WorldMatrix()

	inst := Instance{Color: color}
	common.Mul4(inst.Model[:], world[:], local[:])
	return inst
}

// CylinderInstances appends one Instance per visible node under root that carries a cylinder
// shape. Hidden nodes hide their subtree. Each instance scales a unit cylinder of bottom radius 1
// and height 1 to the node's shape, so the unit mesh must share the shapes' taper ratio.
//
// Parameters:
//   - dst: slice to append to, may be nil
//   - root: the subtree to collect
//   - color: RGBA color for every instance
//
// Returns:
//   - []Instance: dst with the new instances appended
func CylinderInstances(dst []Instance, root node.Node, color [4]float32) []Instance {
	node.Walk(root, func(n node.Node) bool {
		if !n.Visible() {
			return false
		}
		if s := n.Shape(); s != nil {
			dst = append(dst, NodeInstance(n, [3]float32{s.RadiusBottom, s.Height, s.RadiusBottom}, color))
		}
		return true
	})
	return dst
}
