package sway

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/Carmen-Shannon/oxy-tree/fractal/generator"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-3

func generate(t *testing.T) *branch.Tree {
	t.Helper()
	tree, err := generator.NewGenerator(generator.WithSeed(11)).Generate(node.NewNode(), generator.Params{MaxDepth: 3, MinBranches: 2, MaxBranches: 3})
	require.NoError(t, err)
	return tree
}

func tips(tree *branch.Tree) map[branch.ID][3]float32 {
	out := map[branch.ID][3]float32{}
	tree.Walk(func(b *branch.Branch) bool {
		out[b.ID()] = b.Visual().LocalToWorld([3]float32{0, b.Length(), 0})
		return true
	})
	return out
}

func TestIncrement(t *testing.T) {
	assert.InDelta(t, math32.Pi/18, Increment(10, 1), 1e-6)
	assert.InDelta(t, math32.Pi/1080, Increment(10, 1.0/60), 1e-6)
	assert.Equal(t, float32(0), Increment(10, 0))
}

func TestPropagateVisitsEachBranchOnce(t *testing.T) {
	tree := generate(t)
	assert.Equal(t, tree.Len(), Propagate(tree, 0, 0.1))

	first := tree.Root().Children()[0]
	sub := 0
	require.NoError(t, tree.PostOrder(first, func(*branch.Branch) { sub++ }))
	assert.Equal(t, sub, Propagate(tree, first, 0.1))
}

func TestPropagateUnknownOrNil(t *testing.T) {
	assert.Equal(t, 0, Propagate(nil, 0, 1))
	assert.Equal(t, 0, Propagate(generate(t), 999, 1))
}

func TestPropagateInverseRestores(t *testing.T) {
	tree := generate(t)
	before := tips(tree)

	Propagate(tree, 0, 0.7)
	moved := tips(tree)
	Propagate(tree, 0, -0.7)
	after := tips(tree)

	changed := false
	for id, want := range before {
		for i := range want {
			assert.InDelta(t, want[i], after[id][i], tol, "branch %d", id)
		}
		if common3Dist(want, moved[id]) > tol {
			changed = true
		}
	}
	assert.True(t, changed, "a non-zero step moves some branch tip")
}

func TestPropagateRootStaysPut(t *testing.T) {
	tree := generate(t)
	root := tree.Root().Visual()
	q := root.Rotation()
	Propagate(tree, 0, 1.3)
	assert.Equal(t, q, root.Rotation())
}

func TestPropagateKeepsTiltAndBase(t *testing.T) {
	tree := generate(t)
	child, _ := tree.Branch(tree.Root().Children()[0])
	v := child.Visual()
	parent := tree.Root().Visual()

	base := v.WorldPosition()
	axis := func() [3]float32 {
		tip := v.LocalToWorld([3]float32{0, 1, 0})
		return [3]float32{tip[0] - base[0], tip[1] - base[1], tip[2] - base[2]}
	}
	parentAxis := func() [3]float32 {
		o := parent.WorldPosition()
		p := parent.LocalToWorld([3]float32{0, 1, 0})
		return [3]float32{p[0] - o[0], p[1] - o[1], p[2] - o[2]}
	}
	tilt := func() float32 {
		a, b := axis(), parentAxis()
		return math32.Acos(min(max(a[0]*b[0]+a[1]*b[1]+a[2]*b[2], -1), 1))
	}
	startTilt := tilt()

	for range 10 {
		Propagate(tree, 0, 0.4)
	}
	assert.InDelta(t, startTilt, tilt(), tol)
	assert.InDelta(t, math32.Abs(child.DivergenceAngle()), tilt(), tol)
	got := v.WorldPosition()
	for i := range base {
		assert.InDelta(t, base[i], got[i], tol)
	}
}

func common3Dist(a, b [3]float32) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}
