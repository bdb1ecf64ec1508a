package controller

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-tree/engine/camera"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/Carmen-Shannon/oxy-tree/fractal/generator"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tol = 1e-3
	// hitTol covers float32 error in rays unprojected through the inverse view-projection.
	hitTol = 1e-2
)

// newFacingTrunk returns a controller whose camera looks straight at the middle of the root branch.
func newFacingTrunk(t *testing.T, options ...ControllerBuilderOption) Controller {
	t.Helper()
	cam := camera.NewCamera(
		camera.WithAspect(1),
		camera.WithController(camera.NewOrbitController(
			camera.WithTarget(0, 20, 0),
			camera.WithPosition(0, 20, 60),
		)),
	)
	opts := append([]ControllerBuilderOption{
		WithCamera(cam),
		WithGenerator(generator.NewGenerator(generator.WithSeed(3))),
		WithResetDuration(0),
	}, options...)
	return NewController(opts...)
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController()
	assert.Equal(t, ModeAddBranch, c.Mode())
	assert.True(t, c.PickingEnabled())
	assert.False(t, c.Animating())
	assert.Equal(t, float32(10), c.AnimationSpeed())
	assert.Nil(t, c.Tree())
	assert.NotNil(t, c.Camera())
	assert.NotNil(t, c.Raycaster())

	_, ok := c.Hover()
	assert.False(t, ok)
	assert.False(t, c.Marker().Visible())
	assert.Equal(t, c.SceneRoot(), c.Marker().Parent())

	// No tree yet: updates and clicks are harmless.
	c.SetPointer(0, 0)
	c.Update(0.016)
	b, err := c.Click()
	assert.NoError(t, err)
	assert.Nil(t, b)
}

func TestGenerateTreeRejectsInvalidParams(t *testing.T) {
	c := newFacingTrunk(t)
	require.NoError(t, c.GenerateTree(3, 1, 2))
	before := c.Tree()

	err := c.GenerateTree(3, 3, 1)
	assert.ErrorIs(t, err, generator.ErrInvalidParams)
	assert.Same(t, before, c.Tree())
	assert.Equal(t, c.SceneRoot(), before.Root().Visual().Parent())

	assert.ErrorIs(t, c.GenerateTree(0, 1, 1), generator.ErrInvalidParams)
}

func TestGenerateTreeReplacesPrevious(t *testing.T) {
	c := newFacingTrunk(t)
	require.NoError(t, c.GenerateTree(3, 2, 2))
	old := c.Tree()

	require.NoError(t, c.GenerateTree(2, 1, 1))
	assert.NotSame(t, old, c.Tree())
	assert.Nil(t, old.Root().Visual().Parent())
	assert.Equal(t, 2, c.Tree().Len())

	// The scene holds the marker and the new root only.
	assert.Len(t, c.SceneRoot().Children(), 2)
	assert.Contains(t, c.SceneRoot().Children(), c.Tree().Root().Visual())
}

// failingGenerator delegates to a real generator until fail is set.
type failingGenerator struct {
	generator.Generator
	fail bool
}

var errGenerate = errors.New("materialize failed")

func (g *failingGenerator) Generate(sceneRoot node.Node, params generator.Params) (*branch.Tree, error) {
	if g.fail {
		return nil, errGenerate
	}
	return g.Generator.Generate(sceneRoot, params)
}

func TestGenerateTreeFailureKeepsPrevious(t *testing.T) {
	gen := &failingGenerator{Generator: generator.NewGenerator(generator.WithSeed(3))}
	c := newFacingTrunk(t, WithGenerator(gen))
	require.NoError(t, c.GenerateTree(1, 1, 1))
	before := c.Tree()

	c.SetPointer(0, 0)
	c.Update(0.016)
	_, ok := c.Hover()
	require.True(t, ok)

	gen.fail = true
	err := c.GenerateTree(2, 1, 1)
	assert.ErrorIs(t, err, errGenerate)
	assert.Same(t, before, c.Tree())
	assert.Equal(t, c.SceneRoot(), before.Root().Visual().Parent())
	assert.Len(t, c.SceneRoot().Children(), 2)
	_, ok = c.Hover()
	assert.True(t, ok)
}

func TestUpdateTracksHover(t *testing.T) {
	c := newFacingTrunk(t)
	require.NoError(t, c.GenerateTree(1, 1, 1))

	c.SetPointer(0, 0)
	c.Update(0.016)

	hover, ok := c.Hover()
	require.True(t, ok)
	assert.Equal(t, branch.ID(0), hover.Branch)
	assert.Equal(t, 0, hover.Depth)
	assert.InDelta(t, 0, hover.Point[0], hitTol)
	assert.InDelta(t, 20, hover.Point[1], hitTol)
	// The trunk tapers to 0.6375 halfway up.
	assert.InDelta(t, 0.6375, hover.Point[2], hitTol)

	m := c.Marker()
	assert.True(t, m.Visible())
	assert.Equal(t, [3]float32{1, 1, 1}, m.Scale())
	assert.InDelta(t, hover.Point[2], m.WorldPosition()[2], tol)

	// Pointing at empty space clears the hover.
	c.SetPointer(0.9, 0.9)
	c.Update(0.016)
	_, ok = c.Hover()
	assert.False(t, ok)
	assert.False(t, m.Visible())

	c.SetPointer(0, 0)
	c.Update(0.016)
	c.ClearPointer()
	c.Update(0.016)
	_, ok = c.Hover()
	assert.False(t, ok)
}

func TestClickInsertsAtHover(t *testing.T) {
	c := newFacingTrunk(t)
	require.NoError(t, c.GenerateTree(1, 1, 1))
	c.SetPointer(0, 0)
	c.Update(0.016)

	child, err := c.Click()
	require.NoError(t, err)
	require.NotNil(t, child)
	assert.Equal(t, branch.ID(0), child.ParentID())
	assert.Equal(t, 1, child.DepthLevel())
	assert.Equal(t, 2, c.Tree().Len())

	// The new branch leans toward the camera, so it is now the nearest surface.
	c.Update(0.016)
	hover, ok := c.Hover()
	require.True(t, ok)
	assert.Equal(t, child.ID(), hover.Branch)
	assert.Equal(t, 1, hover.Depth)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, c.Marker().Scale())
}

func TestModeTransitions(t *testing.T) {
	c := newFacingTrunk(t)
	require.NoError(t, c.GenerateTree(1, 1, 1))
	c.SetPointer(0, 0)
	c.Update(0.016)
	require.True(t, c.Marker().Visible())

	c.StartAnimation()
	assert.Equal(t, ModeAnimate, c.Mode())
	assert.True(t, c.Animating())
	assert.False(t, c.PickingEnabled())
	assert.False(t, c.Marker().Visible())
	_, ok := c.Hover()
	assert.False(t, ok)

	b, err := c.Click()
	assert.NoError(t, err)
	assert.Nil(t, b)
	assert.Equal(t, 1, c.Tree().Len())

	// Picking stays off while animating.
	c.Update(0.016)
	_, ok = c.Hover()
	assert.False(t, ok)

	c.PauseAnimation()
	assert.Equal(t, ModeAddBranch, c.Mode())
	c.Update(0.016)
	_, ok = c.Hover()
	assert.True(t, ok)

	c.EnterView()
	assert.Equal(t, ModeView, c.Mode())
	assert.False(t, c.PickingEnabled())
	assert.False(t, c.Animating())
	assert.False(t, c.Marker().Visible())
}

func TestAnimationSpinsBranches(t *testing.T) {
	c := newFacingTrunk(t)
	require.NoError(t, c.GenerateTree(2, 1, 1))
	c.SetAnimationSpeed(90)
	assert.Equal(t, float32(90), c.AnimationSpeed())

	root := c.Tree().Root().Visual()
	child, _ := c.Tree().Branch(1)
	rootRot := root.Rotation()
	tipBefore := child.Visual().LocalToWorld([3]float32{0, child.Length(), 0})

	// Paused: nothing moves.
	c.Update(1)
	assert.Equal(t, tipBefore, child.Visual().LocalToWorld([3]float32{0, child.Length(), 0}))

	c.StartAnimation()
	c.Update(1)
	tipAfter := child.Visual().LocalToWorld([3]float32{0, child.Length(), 0})
	assert.Equal(t, rootRot, root.Rotation())
	assert.Greater(t, math32.Abs(tipAfter[0]-tipBefore[0])+math32.Abs(tipAfter[2]-tipBefore[2]), float32(1))
	// The spin keeps the tip height.
	assert.InDelta(t, tipBefore[1], tipAfter[1], tol)

	// Three more quarter turns complete the circle.
	c.Update(3)
	tipFull := child.Visual().LocalToWorld([3]float32{0, child.Length(), 0})
	for i := range tipBefore {
		assert.InDelta(t, tipBefore[i], tipFull[i], 1e-2)
	}
}

func TestResetView(t *testing.T) {
	c := newFacingTrunk(t)
	ctrl := c.Camera().Controller()
	ctrl.SetAzimuth(1.2)
	ctrl.SetRadius(80)

	c.ResetView()
	c.Update(0.016)
	assert.InDelta(t, 0, ctrl.Azimuth(), tol)
	assert.InDelta(t, 60, ctrl.Radius(), tol)
	pos := c.Camera().Position()
	assert.InDelta(t, 60, pos[2], tol)
}

func TestResetViewTweens(t *testing.T) {
	c := newFacingTrunk(t, WithResetDuration(1))
	ctrl := c.Camera().Controller()
	ctrl.SetRadius(100)

	c.ResetView()
	c.Update(0.5)
	assert.True(t, ctrl.Resetting())
	assert.Less(t, ctrl.Radius(), float32(100))
	assert.Greater(t, ctrl.Radius(), float32(60))

	c.Update(0.6)
	assert.False(t, ctrl.Resetting())
	assert.InDelta(t, 60, ctrl.Radius(), tol)
}

func TestPointerFromPixels(t *testing.T) {
	cases := []struct {
		x, y, w, h float32
		nx, ny     float32
	}{
		{400, 300, 800, 600, 0, 0},
		{0, 0, 800, 600, -1, 1},
		{800, 600, 800, 600, 1, -1},
		{200, 450, 800, 600, -0.5, -0.5},
		{10, 10, 0, 600, 0, 0},
	}
	for _, tc := range cases {
		x, y := PointerFromPixels(tc.x, tc.y, tc.w, tc.h)
		assert.InDelta(t, tc.nx, x, 1e-6)
		assert.InDelta(t, tc.ny, y, 1e-6)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "view", ModeView.String())
	assert.Equal(t, "add-branch", ModeAddBranch.String())
	assert.Equal(t, "animate", ModeAnimate.String())
	assert.Equal(t, "unknown", Mode(9).String())
}
