package generator

import (
	"testing"

	"cogentcore.org/core/base/randx"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

// scriptedRand replays a fixed list of uniform samples, cycling when exhausted.
type scriptedRand struct {
	randx.Rand
	vals []float64
	next int
}

func (r *scriptedRand) Float64() float64 {
	v := r.vals[r.next%len(r.vals)]
	r.next++
	return v
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, Params{MaxDepth: 1, MinBranches: 1, MaxBranches: 1}.Validate())
	assert.NoError(t, Params{MaxDepth: 5, MinBranches: 2, MaxBranches: 4}.Validate())

	for _, p := range []Params{
		{MaxDepth: 0, MinBranches: 1, MaxBranches: 1},
		{MaxDepth: 3, MinBranches: 0, MaxBranches: 1},
		{MaxDepth: 3, MinBranches: 3, MaxBranches: 2},
	} {
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams, "%+v", p)
	}
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	scene := node.NewNode()
	tree, err := NewGenerator(WithSeed(1)).Generate(scene, Params{MaxDepth: 3, MinBranches: 4, MaxBranches: 2})
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Nil(t, tree)
	assert.Empty(t, scene.Children())
}

func TestGenerateNilScene(t *testing.T) {
	_, err := NewGenerator(WithSeed(1)).Generate(nil, Params{MaxDepth: 1, MinBranches: 1, MaxBranches: 1})
	assert.ErrorIs(t, err, branch.ErrNilSceneRoot)
}

func TestGenerateSingleChain(t *testing.T) {
	scene := node.NewNode()
	tree, err := NewGenerator(WithSeed(7)).Generate(scene, Params{MaxDepth: 3, MinBranches: 1, MaxBranches: 1})
	require.NoError(t, err)

	require.Equal(t, 3, tree.Len())
	assert.Equal(t, 2, tree.Depth())

	root := tree.Root()
	require.Len(t, root.Children(), 1)
	child, _ := tree.Branch(root.Children()[0])
	require.Len(t, child.Children(), 1)
	grandchild, _ := tree.Branch(child.Children()[0])
	assert.Empty(t, grandchild.Children())

	assert.InDelta(t, 20, child.Longitude(), tol)
	assert.InDelta(t, 40.0/3, child.Length(), tol)
	assert.InDelta(t, 0.375, child.Radius(), tol)
	assert.InDelta(t, 20.0/3, grandchild.Longitude(), tol)
	assert.InDelta(t, DefaultDivergenceAngle, math32.Abs(child.DivergenceAngle()), tol)

	require.Len(t, scene.Children(), 1)
	assert.Equal(t, root.Visual(), scene.Children()[0])
}

func TestGenerateRootOnly(t *testing.T) {
	scene := node.NewNode()
	tree, err := NewGenerator(WithSeed(3)).Generate(scene, Params{MaxDepth: 1, MinBranches: 2, MaxBranches: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Len())
	assert.True(t, tree.Root().IsMaterialized())
}

func TestGeneratedTreeShape(t *testing.T) {
	params := Params{MaxDepth: 4, MinBranches: 2, MaxBranches: 5}
	tree, err := NewGenerator(WithSeed(42)).Generate(node.NewNode(), params)
	require.NoError(t, err)

	tree.Walk(func(b *branch.Branch) bool {
		assert.True(t, b.IsMaterialized(), "branch %d", b.ID())
		assert.LessOrEqual(t, b.DepthLevel(), params.MaxDepth-1)
		assert.GreaterOrEqual(t, b.Azimuth(), float32(0))
		assert.Less(t, b.Azimuth(), 2*math32.Pi)

		kids := b.Children()
		if b.DepthLevel() < params.MaxDepth-1 {
			assert.GreaterOrEqual(t, len(kids), params.MinBranches)
			assert.LessOrEqual(t, len(kids), params.MaxBranches)
		} else {
			assert.Empty(t, kids)
		}

		step := b.Length() / float32(len(kids)+1)
		var prevSign float32
		for i, id := range kids {
			c, ok := tree.Branch(id)
			require.True(t, ok)
			assert.InDelta(t, b.Length()/3, c.Length(), tol)
			assert.InDelta(t, b.Radius()/2, c.Radius(), tol)
			assert.InDelta(t, float32(i+1)*step, c.Longitude(), tol)
			assert.InDelta(t, DefaultDivergenceAngle, math32.Abs(c.DivergenceAngle()), tol)

			sign := math32.Copysign(1, c.DivergenceAngle())
			if i > 0 {
				assert.Equal(t, -prevSign, sign, "siblings alternate tilt side")
			}
			prevSign = sign

			// The visual sits longitude units up the parent's axis.
			assert.Equal(t, b.Visual(), c.Visual().Parent())
			assertVec3(t, [3]float32{0, c.Longitude(), 0}, c.Visual().Position())
		}
		return true
	})
}

func TestGenerateSeededIsDeterministic(t *testing.T) {
	params := Params{MaxDepth: 4, MinBranches: 1, MaxBranches: 4}
	a, err := NewGenerator(WithSeed(99)).Generate(node.NewNode(), params)
	require.NoError(t, err)
	b, err := NewGenerator(WithRand(randx.NewSysRand(99))).Generate(node.NewNode(), params)
	require.NoError(t, err)

	require.Equal(t, a.Len(), b.Len())
	for id := branch.ID(0); int(id) < a.Len(); id++ {
		x, _ := a.Branch(id)
		y, _ := b.Branch(id)
		assert.Equal(t, x.ParentID(), y.ParentID())
		assert.Equal(t, x.Longitude(), y.Longitude())
		assert.Equal(t, x.DivergenceAngle(), y.DivergenceAngle())
		assert.Equal(t, x.Azimuth(), y.Azimuth())
	}
}

func TestGenerateScriptedSamples(t *testing.T) {
	// count, sign flip, then one azimuth per branch in pre-order.
	rng := &scriptedRand{vals: []float64{0.1, 0.9, 0.0, 0.25, 0.5}}
	tree, err := NewGenerator(WithRand(rng)).Generate(node.NewNode(), Params{MaxDepth: 2, MinBranches: 2, MaxBranches: 2})
	require.NoError(t, err)
	require.Equal(t, 3, tree.Len())

	first, _ := tree.Branch(1)
	second, _ := tree.Branch(2)
	assert.InDelta(t, -DefaultDivergenceAngle, first.DivergenceAngle(), tol)
	assert.InDelta(t, DefaultDivergenceAngle, second.DivergenceAngle(), tol)
	assert.InDelta(t, 40.0/3, first.Longitude(), tol)
	assert.InDelta(t, 80.0/3, second.Longitude(), tol)

	assert.InDelta(t, 0, tree.Root().Azimuth(), tol)
	assert.InDelta(t, math32.Pi/2, first.Azimuth(), tol)
	assert.InDelta(t, math32.Pi, second.Azimuth(), tol)
}

func TestBranchCountRounding(t *testing.T) {
	params := Params{MaxDepth: 2, MinBranches: 1, MaxBranches: 3}

	// 0.74 * 2 + 1 = 2.48 rounds down; the sign sample 0.2 keeps the first tilt positive.
	tree, err := NewGenerator(WithRand(&scriptedRand{vals: []float64{0.74, 0.2, 0}})).Generate(node.NewNode(), params)
	require.NoError(t, err)
	assert.Len(t, tree.Root().Children(), 2)
	first, _ := tree.Branch(1)
	assert.Greater(t, first.DivergenceAngle(), float32(0))

	// 0.75 * 2 + 1 = 2.5 rounds up.
	tree, err = NewGenerator(WithRand(&scriptedRand{vals: []float64{0.75, 0.2, 0}})).Generate(node.NewNode(), params)
	require.NoError(t, err)
	assert.Len(t, tree.Root().Children(), 3)
}

func TestOptions(t *testing.T) {
	g := NewGenerator(WithSeed(1), WithRootLength(10), WithRootRadius(2), WithDivergenceAngle(0.5))
	tree, err := g.Generate(node.NewNode(), Params{MaxDepth: 2, MinBranches: 1, MaxBranches: 1})
	require.NoError(t, err)

	assert.Equal(t, float32(10), tree.Root().Length())
	assert.Equal(t, float32(2), tree.Root().Radius())
	child, _ := tree.Branch(1)
	assert.InDelta(t, 0.5, math32.Abs(child.DivergenceAngle()), tol)
	assert.Equal(t, float32(10), g.RootLength())
	assert.Equal(t, float32(0.5), g.DivergenceAngle())

	assert.Panics(t, func() { WithRootLength(0) })
	assert.Panics(t, func() { WithRootRadius(-1) })
}

func assertVec3(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "component %d: want %v, got %v", i, want, got)
	}
}
