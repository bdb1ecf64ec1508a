package mesh

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

// faceNormal returns the winding normal of triangle i.
func faceNormal(m Mesh, i int) [3]float32 {
	a := m.Vertices[m.Indices[3*i]].Position
	b := m.Vertices[m.Indices[3*i+1]].Position
	c := m.Vertices[m.Indices[3*i+2]].Position
	return common.Cross3(common.Sub3(b, a), common.Sub3(c, a))
}

func centroid(m Mesh, i int) [3]float32 {
	var sum [3]float32
	for k := range 3 {
		sum = common.Add3(sum, m.Vertices[m.Indices[3*i+k]].Position)
	}
	return common.Scale3(sum, 1.0/3)
}

func TestLayoutSizes(t *testing.T) {
	assert.Equal(t, uintptr(24), unsafe.Sizeof(Vertex{}))
	assert.Equal(t, uintptr(80), unsafe.Sizeof(Instance{}))
}

func TestCylinderCounts(t *testing.T) {
	m := Cylinder(0.7, 1, 1, 8)
	// Side rings plus two capped fans.
	assert.Len(t, m.Vertices, 2*9+2*10)
	assert.Len(t, m.Indices, 6*8+2*3*8)
	for _, idx := range m.Indices {
		require.Less(t, int(idx), len(m.Vertices))
	}

	assert.Len(t, Cylinder(1, 1, 1, 1).Indices, 6*3+2*3*3)
}

func TestCylinderBounds(t *testing.T) {
	m := Cylinder(0.7, 1, 2, 16)
	for _, v := range m.Vertices {
		r := math32.Hypot(v.Position[0], v.Position[2])
		switch v.Position[1] {
		case 0:
			assert.LessOrEqual(t, r, float32(1+tol))
		case 2:
			assert.LessOrEqual(t, r, float32(0.7+tol))
		default:
			t.Fatalf("vertex off the caps: %v", v.Position)
		}
		assert.InDelta(t, 1, common.Length3(v.Normal), tol)
	}
}

func TestCylinderFacesOutward(t *testing.T) {
	m := Cylinder(0.7, 1, 1, 12)
	for i := range len(m.Indices) / 3 {
		n := faceNormal(m, i)
		c := centroid(m, i)
		out := [3]float32{c[0], 0, c[2]}
		switch {
		case c[1] < tol:
			out = [3]float32{0, -1, 0}
		case c[1] > 1-tol:
			out = [3]float32{0, 1, 0}
		}
		assert.Greater(t, common.Dot3(n, out), float32(0), "triangle %d", i)
	}
}

func TestSphereFacesOutward(t *testing.T) {
	m := Sphere(2, 6, 8)
	assert.Len(t, m.Vertices, 7*9)
	assert.Len(t, m.Indices, 6*6*8)
	for _, v := range m.Vertices {
		assert.InDelta(t, 2, common.Length3(v.Position), tol)
	}
	for i := range len(m.Indices) / 3 {
		n := faceNormal(m, i)
		if common.Length3(n) < tol {
			// Pole triangles collapse to a line.
			continue
		}
		assert.Greater(t, common.Dot3(n, centroid(m, i)), float32(0), "triangle %d", i)
	}
}

func TestCylinderInstances(t *testing.T) {
	root := node.NewNode(node.WithCylinder(0.7, 1, 10))
	child := node.NewNode(node.WithCylinder(0.35, 0.5, 4), node.WithPosition([3]float32{0, 5, 0}))
	hidden := node.NewNode(node.WithCylinder(0.35, 0.5, 4), node.WithVisible(false))
	bare := node.NewNode()
	root.Add(child)
	root.Add(hidden)
	root.Add(bare)
	hidden.Add(node.NewNode(node.WithCylinder(1, 1, 1)))

	color := [4]float32{0.4, 0.3, 0.2, 1}
	got := CylinderInstances(nil, root, color)
	require.Len(t, got, 2)
	assert.Equal(t, color, got[1].Color)

	// The unit cylinder's top center lands on the child's tip.
	tip := common.TransformPoint4(got[1].Model[:], [3]float32{0, 1, 0})
	assert.InDelta(t, 9, tip[1], tol)
	rim := common.TransformPoint4(got[1].Model[:], [3]float32{1, 0, 0})
	assert.InDelta(t, 0.5, rim[0], tol)
	assert.InDelta(t, 5, rim[1], tol)
}

func TestNodeInstance(t *testing.T) {
	n := node.NewNode(node.WithPosition([3]float32{1, 2, 3}))
	inst := NodeInstance(n, [3]float32{2, 2, 2}, [4]float32{1, 0, 0, 1})
	p := common.TransformPoint4(inst.Model[:], [3]float32{1, 0, 0})
	assert.InDelta(t, 3, p[0], tol)
	assert.InDelta(t, 2, p[1], tol)
	assert.InDelta(t, 3, p[2], tol)
}
