package raycast

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-3

func TestIntersectCylinderSide(t *testing.T) {
	c := node.Cylinder{RadiusTop: 1, RadiusBottom: 1, Height: 10}
	tHit, ok := IntersectCylinder(common.Ray{Origin: [3]float32{-5, 5, 0}, Direction: [3]float32{1, 0, 0}}, c)
	require.True(t, ok)
	assert.InDelta(t, 4, tHit, tol)
}

func TestIntersectCylinderTapered(t *testing.T) {
	c := node.Cylinder{RadiusTop: 0.5, RadiusBottom: 1, Height: 10}
	tHit, ok := IntersectCylinder(common.Ray{Origin: [3]float32{-5, 5, 0}, Direction: [3]float32{1, 0, 0}}, c)
	require.True(t, ok)
	// Radius at mid-height is 0.75.
	assert.InDelta(t, 4.25, tHit, tol)
}

func TestIntersectCylinderCaps(t *testing.T) {
	c := node.Cylinder{RadiusTop: 0.7, RadiusBottom: 1, Height: 10}

	tTop, ok := IntersectCylinder(common.Ray{Origin: [3]float32{0.2, 20, 0}, Direction: [3]float32{0, -1, 0}}, c)
	require.True(t, ok)
	assert.InDelta(t, 10, tTop, tol)

	tBottom, ok := IntersectCylinder(common.Ray{Origin: [3]float32{0, -5, 0.3}, Direction: [3]float32{0, 1, 0}}, c)
	require.True(t, ok)
	assert.InDelta(t, 5, tBottom, tol)
}

func TestIntersectCylinderMisses(t *testing.T) {
	c := node.Cylinder{RadiusTop: 1, RadiusBottom: 1, Height: 10}

	_, ok := IntersectCylinder(common.Ray{Origin: [3]float32{-5, 15, 0}, Direction: [3]float32{1, 0, 0}}, c)
	assert.False(t, ok, "above the top cap")

	_, ok = IntersectCylinder(common.Ray{Origin: [3]float32{-5, 5, 0}, Direction: [3]float32{-1, 0, 0}}, c)
	assert.False(t, ok, "pointing away")

	_, ok = IntersectCylinder(common.Ray{Origin: [3]float32{-5, 5, 0}, Direction: [3]float32{1, 0, 0}}, node.Cylinder{RadiusTop: 1, RadiusBottom: 1})
	assert.False(t, ok, "zero height")
}

// buildScene returns a trunk along +Y with one branch tipped toward +X at y = 10.
func buildScene() (root, trunk, limb node.Node) {
	root = node.NewNode(node.WithName("scene"))
	trunk = node.NewNode(node.WithTag("trunk"), node.WithCylinder(0.7, 1, 20))
	limb = node.NewNode(node.WithTag("limb"), node.WithCylinder(0.35, 0.5, 8))
	root.Add(trunk)
	trunk.Add(limb)
	limb.TranslateY(10)
	limb.RotateZ(-math32.Pi / 2)
	return root, trunk, limb
}

func TestIntersectSubtreeNearest(t *testing.T) {
	root, _, limb := buildScene()
	rc := NewRaycaster()
	defer rc.Release()

	// Straight down onto the limb at x = 5: the limb is hit before the trunk could be.
	hit, ok := rc.IntersectSubtree(common.Ray{Origin: [3]float32{5, 30, 0}, Direction: [3]float32{0, -1, 0}}, root)
	require.True(t, ok)
	assert.Equal(t, limb, hit.Node)
	assert.Equal(t, "limb", hit.Tag)
	assert.InDelta(t, 10, hit.Point[1], 0.5)
	assert.InDelta(t, 5, hit.Point[0], tol)
}

func TestIntersectSubtreePicksCloserNode(t *testing.T) {
	root, trunk, _ := buildScene()
	rc := NewRaycaster()

	// Along -X at y = 10 the ray meets the limb tip cap at x = 8 before the trunk.
	hit, ok := rc.IntersectSubtree(common.Ray{Origin: [3]float32{30, 10, 0}, Direction: [3]float32{-1, 0, 0}}, root)
	require.True(t, ok)
	assert.Equal(t, "limb", hit.Tag)
	assert.InDelta(t, 22, hit.Distance, tol)

	// At y = 5 only the trunk is in the way.
	hit, ok = rc.IntersectSubtree(common.Ray{Origin: [3]float32{30, 5, 0}, Direction: [3]float32{-1, 0, 0}}, root)
	require.True(t, ok)
	assert.Equal(t, trunk, hit.Node)
}

func TestIntersectSubtreeSkipsHidden(t *testing.T) {
	root, trunk, limb := buildScene()
	rc := NewRaycaster()
	ray := common.Ray{Origin: [3]float32{5, 30, 0}, Direction: [3]float32{0, -1, 0}}

	limb.SetVisible(false)
	_, ok := rc.IntersectSubtree(ray, root)
	assert.False(t, ok)

	limb.SetVisible(true)
	trunk.SetVisible(false)
	_, ok = rc.IntersectSubtree(ray, root)
	assert.False(t, ok, "hidden parent hides its subtree")
}

func TestIntersectSubtreeNilRoot(t *testing.T) {
	_, ok := NewRaycaster().IntersectSubtree(common.Ray{Direction: [3]float32{0, 0, 1}}, nil)
	assert.False(t, ok)
}

func TestParallelMatchesSequential(t *testing.T) {
	root := node.NewNode()
	for i := range 40 {
		n := node.NewNode(node.WithTag(i), node.WithCylinder(0.3, 0.4, 5))
		n.SetPosition([3]float32{float32(i) * 0.5, 0, float32(i) * -1})
		root.Add(n)
	}
	ray := common.Ray{Origin: [3]float32{10, 2.5, 50}, Direction: [3]float32{0, 0, -1}}

	seq := NewRaycaster()
	par := NewRaycaster(WithWorkers(4), WithParallelThreshold(1))
	defer par.Release()

	want, ok := seq.IntersectSubtree(ray, root)
	require.True(t, ok)
	for range 5 {
		got, ok := par.IntersectSubtree(ray, root)
		require.True(t, ok)
		assert.Equal(t, want.Tag, got.Tag)
		assert.InDelta(t, want.Distance, got.Distance, tol)
	}
}

type fixedFrustum struct{ f common.Frustum }

func (s fixedFrustum) Frustum() common.Frustum { return s.f }

func TestFrustumCullingDiscardsOffscreen(t *testing.T) {
	root, _, _ := buildScene()

	var proj, view, vp [16]float32
	common.Perspective(proj[:], math32.Pi/4, 1, 0.1, 100)
	// Looking away from the tree.
	common.LookAt(view[:], 0, 10, 50, 0, 10, 100, 0, 1, 0)
	common.Mul4(vp[:], proj[:], view[:])

	rc := NewRaycaster(WithFrustumCulling(fixedFrustum{common.ExtractFrustumFromMatrix(vp[:])}))
	_, ok := rc.IntersectSubtree(common.Ray{Origin: [3]float32{5, 30, 0}, Direction: [3]float32{0, -1, 0}}, root)
	assert.False(t, ok)
}

func TestBuilderPanics(t *testing.T) {
	assert.Panics(t, func() { WithParallelThreshold(0) })
}
