package inserter

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/Carmen-Shannon/oxy-tree/fractal/generator"
	"github.com/Carmen-Shannon/oxy-tree/fractal/picker"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-3

func newRootOnly(t *testing.T) *branch.Tree {
	t.Helper()
	tree := branch.NewTree(40, 0.75)
	_, err := tree.MaterializeRoot(node.NewNode(), 0)
	require.NoError(t, err)
	return tree
}

func TestInsertNilHoverIsNoop(t *testing.T) {
	tree := newRootOnly(t)
	b, err := NewInserter().Insert(tree, nil)
	assert.NoError(t, err)
	assert.Nil(t, b)
	assert.Equal(t, 1, tree.Len())
}

func TestInsertNilTree(t *testing.T) {
	_, err := NewInserter().Insert(nil, &picker.Hover{})
	assert.ErrorIs(t, err, ErrNilTree)
}

func TestInsertOnRoot(t *testing.T) {
	tree := newRootOnly(t)
	hover := &picker.Hover{Branch: 0, Point: [3]float32{0.6, 10, 0}, Depth: 0}

	child, err := NewInserter().Insert(tree, hover)
	require.NoError(t, err)
	require.NotNil(t, child)

	assert.Equal(t, 2, tree.Len())
	assert.Equal(t, []branch.ID{child.ID()}, tree.Root().Children())
	assert.Equal(t, 1, child.DepthLevel())
	assert.InDelta(t, 40.0/3, child.Length(), tol)
	assert.InDelta(t, 0.375, child.Radius(), tol)
	assert.InDelta(t, DefaultDivergenceAngle, child.DivergenceAngle(), tol)
	assert.InDelta(t, -60*math32.Pi/180, child.DivergenceAngle(), tol)

	wantLon, wantAz := picker.Resolve(tree.Root().Visual(), hover.Point)
	assert.InDelta(t, wantLon, child.Longitude(), tol)
	assert.InDelta(t, wantAz, child.Azimuth(), tol)
	assert.InDelta(t, 0, child.Azimuth(), tol)

	require.True(t, child.IsMaterialized())
	assert.Equal(t, tree.Root().Visual(), child.Visual().Parent())
	assert.Equal(t, child.ID(), child.Visual().Tag())
}

func TestInsertedBranchLeansTowardHover(t *testing.T) {
	tree := newRootOnly(t)
	for _, p := range [][3]float32{{0.5, 8, 0.5}, {-0.7, 12, 0.1}, {-0.2, 20, -0.7}, {0.4, 30, -0.6}} {
		child, err := NewInserter().Insert(tree, &picker.Hover{Branch: 0, Point: p})
		require.NoError(t, err)

		base := child.Visual().WorldPosition()
		tip := child.Visual().LocalToWorld([3]float32{0, child.Length(), 0})
		dx, dz := tip[0]-base[0], tip[2]-base[2]

		// Horizontal lean and hover direction agree.
		cos := (dx*p[0] + dz*p[2]) / (math32.Hypot(dx, dz) * math32.Hypot(p[0], p[2]))
		assert.InDelta(t, 1, cos, tol, "point %v", p)
		// Inserted branches still grow upward.
		assert.Greater(t, tip[1], base[1])
	}
	assert.Len(t, tree.Root().Children(), 4)
}

func TestInsertIgnoresGenerationDepth(t *testing.T) {
	scene := node.NewNode()
	tree, err := generator.NewGenerator(generator.WithSeed(5)).Generate(scene, generator.Params{MaxDepth: 2, MinBranches: 1, MaxBranches: 1})
	require.NoError(t, err)
	leaf, _ := tree.Branch(1)

	point := leaf.Visual().LocalToWorld([3]float32{leaf.Radius(), 2, -leaf.Radius()})
	child, err := NewInserter().Insert(tree, &picker.Hover{Branch: leaf.ID(), Point: point, Depth: leaf.DepthLevel()})
	require.NoError(t, err)
	assert.Equal(t, 2, child.DepthLevel())
	assert.Equal(t, leaf.ID(), child.ParentID())
	assert.InDelta(t, math32.Pi/4, child.Azimuth(), tol)
}

func TestInsertUnknownBranch(t *testing.T) {
	tree := newRootOnly(t)
	_, err := NewInserter().Insert(tree, &picker.Hover{Branch: 9})
	assert.ErrorIs(t, err, branch.ErrUnknownBranch)
	assert.Equal(t, 1, tree.Len())
}

func TestInsertCustomDivergence(t *testing.T) {
	tree := newRootOnly(t)
	child, err := NewInserter(WithDivergenceAngle(-0.3), WithLogger(nil)).Insert(tree, &picker.Hover{Branch: 0, Point: [3]float32{0.7, 5, 0}})
	require.NoError(t, err)
	assert.InDelta(t, -0.3, child.DivergenceAngle(), tol)
}
