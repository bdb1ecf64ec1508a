// Package controller owns the interactive state of a tree scene: the current tree,
// the hover marker and the interaction mode. It turns pointer input into hover targets
// and branch insertions and drives the sway animation each frame.
package controller

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-tree/engine/camera"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/Carmen-Shannon/oxy-tree/engine/raycast"
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/Carmen-Shannon/oxy-tree/fractal/generator"
	"github.com/Carmen-Shannon/oxy-tree/fractal/inserter"
	"github.com/Carmen-Shannon/oxy-tree/fractal/picker"
	"github.com/Carmen-Shannon/oxy-tree/fractal/sway"
	"github.com/chewxy/math32"
)

const (
	// MarkerRadius is the radius of the hover marker sphere before depth scaling.
	MarkerRadius float32 = 0.4
	// DefaultResetDuration is how long ResetView takes to return the camera, in seconds.
	DefaultResetDuration float32 = 0.5
)

type controller struct {
	mu *sync.Mutex

	mode          Mode
	speed         float32
	resetDuration float32

	camera    camera.Camera
	raycaster raycast.Raycaster
	generator generator.Generator
	inserter  inserter.Inserter
	logger    *slog.Logger

	sceneRoot node.Node
	marker    node.Node
	tree      *branch.Tree
	hover     *picker.Hover

	pointer    [2]float32
	hasPointer bool
}

// Controller coordinates a tree scene. All methods are meant to be called from the frame thread.
type Controller interface {
	// GenerateTree replaces the current tree with a newly generated one. The current tree is
	// only detached once the new one is built, so a rejected or failed call leaves the scene
	// as it was.
	//
	// Parameters:
	//   - maxDepth: number of depth levels, root included
	//   - minBranches: fewest children per non-leaf branch
	//   - maxBranches: most children per non-leaf branch
	//
	// Returns:
	//   - error: generator.ErrInvalidParams wrapped, or a generation error
	GenerateTree(maxDepth, minBranches, maxBranches int) error

	// StartAnimation enters ModeAnimate. Picking stops and the hover marker is hidden.
	StartAnimation()

	// PauseAnimation enters ModeAddBranch. Branches keep the pose they were animated to.
	PauseAnimation()

	// EnterView enters ModeView, where neither picking nor animation run.
	EnterView()

	// SetAnimationSpeed sets the sway speed.
	//
	// Parameters:
	//   - degreesPerSecond: rotation speed, negative values spin the other way
	SetAnimationSpeed(degreesPerSecond float32)

	// AnimationSpeed returns the sway speed in degrees per second.
	AnimationSpeed() float32

	// SetPointer records the pointer position used for picking on the next Update.
	//
	// Parameters:
	//   - ndcX, ndcY: normalized device coordinates, +y up
	SetPointer(ndcX, ndcY float32)

	// ClearPointer forgets the pointer, for example when it leaves the window.
	ClearPointer()

	// Click grows a branch at the current hover target. Outside ModeAddBranch or without
	// a hover target it does nothing.
	//
	// Returns:
	//   - *branch.Branch: the new branch, nil if nothing was inserted
	//   - error: an insertion error
	Click() (*branch.Branch, error)

	// Update advances one frame: the camera tween always, then picking in ModeAddBranch
	// or sway in ModeAnimate.
	//
	// Parameters:
	//   - dt: frame duration in seconds
	Update(dt float32)

	// ResetView returns the camera to its saved pose.
	ResetView()

	// Mode returns the current interaction mode.
	Mode() Mode

	// PickingEnabled reports whether hover tracking and insertion are active.
	PickingEnabled() bool

	// Animating reports whether the tree is being animated.
	Animating() bool

	// Tree returns the current tree, nil before the first GenerateTree.
	Tree() *branch.Tree

	// Hover returns a copy of the current hover target.
	//
	// Returns:
	//   - picker.Hover: the hover target
	//   - bool: false if nothing is hovered
	Hover() (picker.Hover, bool)

	// Marker returns the hover marker node. Its scale is already divided by 2^depth.
	Marker() node.Node

	// SceneRoot returns the node trees are attached to.
	SceneRoot() node.Node

	// Camera returns the camera used for picking.
	Camera() camera.Camera

	// Raycaster returns the raycaster used for hover picking.
	Raycaster() raycast.Raycaster
}

var _ Controller = &controller{}

// NewController creates a Controller in ModeAddBranch with no tree. Components not supplied
// through options get defaults: an orbit camera, a sequential raycaster, a time-seeded
// generator and an inserter.
//
// Parameters:
//   - options: variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the new controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		mu:            &sync.Mutex{},
		mode:          ModeAddBranch,
		speed:         sway.DefaultSpeed,
		resetDuration: DefaultResetDuration,
		logger:        slog.Default(),
	}
	for _, option := range options {
		option(c)
	}

	if c.camera == nil {
		c.camera = camera.NewCamera(camera.WithController(camera.NewOrbitController()))
	}
	if c.raycaster == nil {
		c.raycaster = raycast.NewRaycaster()
	}
	if c.generator == nil {
		c.generator = generator.NewGenerator(generator.WithLogger(c.logger))
	}
	if c.inserter == nil {
		c.inserter = inserter.NewInserter(inserter.WithLogger(c.logger))
	}

	c.sceneRoot = node.NewNode(node.WithName("scene"))
	c.marker = node.NewNode(node.WithName("marker"), node.WithVisible(false))
	c.sceneRoot.Add(c.marker)
	return c
}

func (c *controller) GenerateTree(maxDepth, minBranches, maxBranches int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	params := generator.Params{MaxDepth: maxDepth, MinBranches: minBranches, MaxBranches: maxBranches}
	if err := params.Validate(); err != nil {
		c.logger.Warn("tree generation rejected", "error", err)
		return fmt.Errorf("generate tree: %w", err)
	}

	// The old tree stays attached until its replacement is fully built.
	tree, err := c.generator.Generate(c.sceneRoot, params)
	if err != nil {
		c.logger.Warn("tree generation failed", "error", err)
		return fmt.Errorf("generate tree: %w", err)
	}

	if c.tree != nil {
		c.tree.Detach()
	}
	c.clearHover()
	c.tree = tree
	return nil
}

func (c *controller) StartAnimation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setMode(ModeAnimate)
}

func (c *controller) PauseAnimation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setMode(ModeAddBranch)
}

func (c *controller) EnterView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setMode(ModeView)
}

func (c *controller) SetAnimationSpeed(degreesPerSecond float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = degreesPerSecond
}

func (c *controller) AnimationSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *controller) SetPointer(ndcX, ndcY float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pointer = [2]float32{ndcX, ndcY}
	c.hasPointer = true
}

func (c *controller) ClearPointer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasPointer = false
}

func (c *controller) Click() (*branch.Branch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeAddBranch || c.hover == nil || c.tree == nil {
		return nil, nil
	}
	return c.inserter.Insert(c.tree, c.hover)
}

func (c *controller) Update(dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctrl := c.camera.Controller(); ctrl != nil {
		ctrl.Update(dt)
	}
	c.camera.Update()

	switch c.mode {
	case ModeAddBranch:
		c.updateHover()
	case ModeAnimate:
		if c.tree != nil {
			sway.Propagate(c.tree, c.tree.Root().ID(), sway.Increment(c.speed, dt))
		}
	}
}

func (c *controller) ResetView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctrl := c.camera.Controller(); ctrl != nil {
		ctrl.Reset(c.resetDuration)
	}
}

func (c *controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *controller) PickingEnabled() bool {
	return c.Mode() == ModeAddBranch
}

func (c *controller) Animating() bool {
	return c.Mode() == ModeAnimate
}

func (c *controller) Tree() *branch.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree
}

func (c *controller) Hover() (picker.Hover, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hover == nil {
		return picker.Hover{}, false
	}
	return *c.hover, true
}

func (c *controller) Marker() node.Node {
	return c.marker
}

func (c *controller) SceneRoot() node.Node {
	return c.sceneRoot
}

func (c *controller) Camera() camera.Camera {
	return c.camera
}

func (c *controller) Raycaster() raycast.Raycaster {
	return c.raycaster
}

// PointerFromPixels converts a cursor position, origin top left, into normalized device
// coordinates with +y up. The position and the size must share units, which for a GLFW
// window are screen coordinates rather than framebuffer pixels.
//
// Parameters:
//   - x, y: pointer position
//   - width, height: window size in the same units
//
// Returns:
//   - ndcX, ndcY: the position in [-1, 1], (0, 0) for an empty window
func PointerFromPixels(x, y, width, height float32) (ndcX, ndcY float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return x/width*2 - 1, 1 - y/height*2
}

// setMode switches modes and hides the marker when picking stops. Caller must hold the mutex.
func (c *controller) setMode(m Mode) {
	if c.mode == m {
		return
	}
	c.logger.Info("mode changed", "from", c.mode, "to", m)
	c.mode = m
	if m != ModeAddBranch {
		c.clearHover()
	}
}

// updateHover casts the pointer ray into the tree and moves the marker to the nearest hit.
// Caller must hold the mutex.
func (c *controller) updateHover() {
	if c.tree == nil || !c.hasPointer {
		c.clearHover()
		return
	}

	ray := c.camera.Ray(c.pointer[0], c.pointer[1])
	hit, ok := c.raycaster.IntersectSubtree(ray, c.tree.Root().Visual())
	if !ok {
		c.clearHover()
		return
	}
	id, ok := hit.Tag.(branch.ID)
	if !ok {
		c.clearHover()
		return
	}
	b, ok := c.tree.Branch(id)
	if !ok {
		c.clearHover()
		return
	}

	c.hover = &picker.Hover{Branch: id, Point: hit.Point, Depth: b.DepthLevel()}

	s := math32.Ldexp(1, -b.DepthLevel())
	c.marker.SetPosition(c.sceneRoot.WorldToLocal(hit.Point))
	c.marker.SetScale([3]float32{s, s, s})
	c.marker.SetVisible(true)
}

// clearHover drops the hover target. Caller must hold the mutex.
func (c *controller) clearHover() {
	c.hover = nil
	c.marker.SetVisible(false)
}
