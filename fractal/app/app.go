// Package app assembles the interactive tree viewer: window, renderer, camera, controller and
// frame loop, plus the input bindings that drive them.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/Carmen-Shannon/oxy-tree/config"
	"github.com/Carmen-Shannon/oxy-tree/engine"
	"github.com/Carmen-Shannon/oxy-tree/engine/camera"
	"github.com/Carmen-Shannon/oxy-tree/engine/light"
	"github.com/Carmen-Shannon/oxy-tree/engine/raycast"
	"github.com/Carmen-Shannon/oxy-tree/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tree/engine/renderer/mesh"
	"github.com/Carmen-Shannon/oxy-tree/engine/window"
	"github.com/Carmen-Shannon/oxy-tree/fractal/controller"
	"github.com/Carmen-Shannon/oxy-tree/fractal/generator"
	"github.com/Carmen-Shannon/oxy-tree/fractal/inserter"
	"github.com/chewxy/math32"
)

// Mesh keys registered with the renderer.
const (
	BranchMesh = "branch"
	MarkerMesh = "marker"
)

const (
	cylinderSegments = 16
	sphereRings      = 12
	sphereSegments   = 16
)

var (
	branchColor = [4]float32{0.45, 0.31, 0.2, 1}
	markerColor = [4]float32{0.9, 0.2, 0.15, 1}
)

type app struct {
	cfg    config.Config
	logger *slog.Logger

	window    window.Window
	renderer  renderer.Renderer
	engine    engine.Engine
	ctrl      controller.Controller
	raycaster raycast.Raycaster

	params generator.Params
	// width and height are the framebuffer size in pixels.
	width  int
	height int
	// screenWidth and screenHeight are the window size in the cursor's screen coordinates.
	screenWidth  int
	screenHeight int

	input inputState

	branchInstances []mesh.Instance
	markerInstances []mesh.Instance
}

// App is a running tree viewer. Its methods may be called from any goroutine; actions that touch
// the scene are queued and run at the start of the next frame.
type App interface {
	// Run shows the window and runs frames until it is closed or Quit is called, then releases
	// the GPU and window. It must be called from the goroutine that called Initialize.
	Run()

	// Quit stops Run.
	Quit()

	// GenerateTree queues a new tree. Parameters are validated immediately.
	//
	// Parameters:
	//   - maxDepth: number of depth levels, root included
	//   - minBranches: fewest children per non-leaf branch
	//   - maxBranches: most children per non-leaf branch
	//
	// Returns:
	//   - error: generator.ErrInvalidParams wrapped, in which case nothing is queued
	GenerateTree(maxDepth, minBranches, maxBranches int) error

	// ResetView eases the camera back to its initial pose.
	ResetView()

	// StartAnimation starts the sway animation and disables branch picking.
	StartAnimation()

	// PauseAnimation stops the sway animation and re-enables branch picking.
	PauseAnimation()

	// SetAnimationSpeed sets the sway speed.
	//
	// Parameters:
	//   - degreesPerSecond: rotation speed
	SetAnimationSpeed(degreesPerSecond float32)

	// IsAnimating reports whether the sway animation is running.
	IsAnimating() bool

	// Controller returns the scene controller. Only use it from the frame thread.
	Controller() controller.Controller
}

var _ App = &app{}

// Initialize builds the window, renderer, camera, controller and engine described by cfg,
// generates the first tree and wires input. The window title is surfaceID when it is not empty.
// It must be called from the goroutine that will call Run, normally main.
//
// Parameters:
//   - cfg: the application configuration
//   - surfaceID: identifies the drawing surface, used as the window title
//   - options: variadic list of AppBuilderOption functions
//
// Returns:
//   - App: the initialized app
//   - error: config.ErrInvalid or generator.ErrInvalidParams wrapped, or a window or GPU failure
func Initialize(cfg config.Config, surfaceID string, options ...AppBuilderOption) (a App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	o := &appOptions{logger: slog.Default()}
	for _, opt := range options {
		opt(o)
	}

	// Window and GPU constructors panic when the platform cannot provide them.
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("initialize %q: %v", surfaceID, r)
		}
	}()

	win := window.NewWindow(
		window.WithTitle(common.Coalesce(surfaceID, cfg.Window.Title)),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(cfg.Window.MinWidth, cfg.Window.MinHeight),
	)

	presentMode := renderer.PresentModeVSync
	if cfg.Engine.PresentMode == config.PresentModeUncapped {
		presentMode = renderer.PresentModeUncapped
	}
	cc := cfg.Engine.ClearColor
	lc := cfg.Light
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithLight(light.NewLight(
			light.WithDirection(lc.Direction[0], lc.Direction[1], lc.Direction[2]),
			light.WithColor(lc.Color[0], lc.Color[1], lc.Color[2]),
			light.WithIntensity(lc.Intensity),
			light.WithAmbient(lc.Ambient),
		)),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Engine.MSAA)),
		renderer.WithClearColor(cc[0], cc[1], cc[2], cc[3]),
	)
	if err := registerMeshes(r); err != nil {
		r.Release()
		_ = win.Close()
		return nil, fmt.Errorf("initialize %q: %w", surfaceID, err)
	}

	ctrl, rc, err := newController(cfg, win.Width(), win.Height(), o.logger)
	if err != nil {
		r.Release()
		_ = win.Close()
		return nil, fmt.Errorf("initialize %q: %w", surfaceID, err)
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithLogger(o.logger),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
		engine.WithTickRate(cfg.Engine.TickRate),
	)

	ap := newApp(cfg, o.logger, ctrl, eng, r, win.Width(), win.Height())
	ap.window = win
	ap.raycaster = rc
	ap.screenResize(win.ScreenWidth(), win.ScreenHeight())
	ap.bindWindow(win)

	o.logger.Info("app initialized",
		"surface", surfaceID,
		"width", ap.width,
		"height", ap.height,
		"screen_width", ap.screenWidth,
		"screen_height", ap.screenHeight,
		"present_mode", cfg.Engine.PresentMode,
		"msaa", cfg.Engine.MSAA,
		"raycast_workers", cfg.Engine.RaycastWorkers,
	)
	return ap, nil
}

// registerMeshes uploads the unit branch cylinder and the marker sphere.
func registerMeshes(r renderer.Renderer) error {
	if err := r.RegisterMesh(BranchMesh, mesh.Cylinder(0.7, 1, 1, cylinderSegments)); err != nil {
		return fmt.Errorf("register %s mesh: %w", BranchMesh, err)
	}
	if err := r.RegisterMesh(MarkerMesh, mesh.Sphere(controller.MarkerRadius, sphereRings, sphereSegments)); err != nil {
		return fmt.Errorf("register %s mesh: %w", MarkerMesh, err)
	}
	return nil
}

// newController builds the camera, the hover raycaster and the controller for cfg and
// generates the first tree. The caller releases the returned raycaster.
func newController(cfg config.Config, width, height int, logger *slog.Logger) (controller.Controller, raycast.Raycaster, error) {
	resetSeconds, err := cfg.Camera.ResetDurationSeconds()
	if err != nil {
		return nil, nil, err
	}

	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	cc := cfg.Camera
	pos := cc.Position
	cam := camera.NewCamera(
		camera.WithFov(cc.FovDegrees*math32.Pi/180),
		camera.WithAspect(aspect),
		camera.WithNear(cc.Near),
		camera.WithFar(cc.Far),
		camera.WithController(camera.NewOrbitController(
			camera.WithTarget(0, cfg.Tree.RootLength/2, 0),
			camera.WithPosition(pos[0], pos[1], pos[2]),
			camera.WithRadiusBounds(cc.RadiusRange[0], cc.RadiusRange[1]),
			camera.WithElevationBounds(cc.ElevationRange[0]*math32.Pi/180, cc.ElevationRange[1]*math32.Pi/180),
			camera.WithOrbitSpeed(cc.OrbitSpeed*math32.Pi/180),
			camera.WithMouseSensitivity(cc.MouseSensitivity),
			camera.WithZoomSpeed(cc.ZoomSpeed),
			camera.WithPanSpeed(cc.PanSpeed),
		)),
	)
	rc := raycast.NewRaycaster(
		raycast.WithWorkers(cfg.Engine.RaycastWorkers),
		raycast.WithFrustumCulling(cam),
	)

	genOpts := []generator.GeneratorBuilderOption{
		generator.WithRootLength(cfg.Tree.RootLength),
		generator.WithRootRadius(cfg.Tree.RootRadius),
		generator.WithLogger(logger),
	}
	if cfg.Tree.Seed != 0 {
		genOpts = append(genOpts, generator.WithSeed(cfg.Tree.Seed))
	}

	ctrl := controller.NewController(
		controller.WithCamera(cam),
		controller.WithRaycaster(rc),
		controller.WithGenerator(generator.NewGenerator(genOpts...)),
		controller.WithInserter(inserter.NewInserter(inserter.WithLogger(logger))),
		controller.WithLogger(logger),
		controller.WithAnimationSpeed(cfg.Animation.DegreesPerSecond()),
		controller.WithResetDuration(resetSeconds),
	)
	if err := ctrl.GenerateTree(cfg.Tree.MaxDepth, cfg.Tree.MinBranches, cfg.Tree.MaxBranches); err != nil {
		rc.Release()
		return nil, nil, err
	}
	if cfg.Animation.Autostart {
		ctrl.StartAnimation()
	}
	return ctrl, rc, nil
}

// newApp wires a controller, engine and optional renderer together. The renderer may be nil,
// in which case frames only tick the controller. The screen size starts equal to the
// framebuffer size until screenResize reports otherwise.
func newApp(cfg config.Config, logger *slog.Logger, ctrl controller.Controller, eng engine.Engine, r renderer.Renderer, width, height int) *app {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		renderer: r,
		engine:   eng,
		ctrl:     ctrl,
		params: generator.Params{
			MaxDepth:    cfg.Tree.MaxDepth,
			MinBranches: cfg.Tree.MinBranches,
			MaxBranches: cfg.Tree.MaxBranches,
		},
		width:        width,
		height:       height,
		screenWidth:  width,
		screenHeight: height,
	}

	eng.SetTickCallback(a.tick)
	eng.SetRenderCallback(a.render)
	eng.SetResizeCallback(a.resize)
	eng.Profiler().AddCounter("branches", func() int {
		if t := ctrl.Tree(); t != nil {
			return t.Len()
		}
		return 0
	})
	return a
}

func (a *app) Run() {
	a.engine.Run()

	if a.raycaster != nil {
		a.raycaster.Release()
	}
	if a.renderer != nil {
		a.renderer.Release()
	}
	if a.window != nil {
		if err := a.window.Close(); err != nil {
			a.logger.Warn("window close failed", "error", err)
		}
	}
}

func (a *app) Quit() {
	a.engine.Quit()
}

func (a *app) GenerateTree(maxDepth, minBranches, maxBranches int) error {
	params := generator.Params{MaxDepth: maxDepth, MinBranches: minBranches, MaxBranches: maxBranches}
	if err := params.Validate(); err != nil {
		a.logger.Warn("tree generation rejected", "error", err)
		return fmt.Errorf("generate tree: %w", err)
	}
	a.engine.Post(func() { a.generate(params) })
	return nil
}

// generate runs on the frame thread.
func (a *app) generate(params generator.Params) {
	if err := a.ctrl.GenerateTree(params.MaxDepth, params.MinBranches, params.MaxBranches); err != nil {
		a.logger.Error("tree generation failed", "error", err)
		return
	}
	a.params = params
}

func (a *app) ResetView() {
	a.engine.Post(a.ctrl.ResetView)
}

func (a *app) StartAnimation() {
	a.engine.Post(a.ctrl.StartAnimation)
}

func (a *app) PauseAnimation() {
	a.engine.Post(a.ctrl.PauseAnimation)
}

func (a *app) SetAnimationSpeed(degreesPerSecond float32) {
	a.engine.Post(func() { a.ctrl.SetAnimationSpeed(degreesPerSecond) })
}

func (a *app) IsAnimating() bool {
	return a.ctrl.Animating()
}

func (a *app) Controller() controller.Controller {
	return a.ctrl
}

func (a *app) tick(dt float32) {
	a.ctrl.Update(dt)
}

// collectInstances gathers the frame's branch and marker instances into the app's reusable slices.
func (a *app) collectInstances() {
	a.branchInstances = mesh.CylinderInstances(a.branchInstances[:0], a.ctrl.SceneRoot(), branchColor)

	a.markerInstances = a.markerInstances[:0]
	if m := a.ctrl.Marker(); m.Visible() {
		a.markerInstances = append(a.markerInstances, mesh.NodeInstance(m, [3]float32{1, 1, 1}, markerColor))
	}
}

func (a *app) render(float32) {
	if a.renderer == nil {
		return
	}
	if err := a.renderer.BeginFrame(a.ctrl.Camera().ViewProjectionMatrix()); err != nil {
		if !errors.Is(err, renderer.ErrSurfaceUnavailable) {
			a.logger.Debug("frame skipped", "error", err)
		}
		return
	}

	a.collectInstances()
	if err := a.renderer.Draw(BranchMesh, a.branchInstances); err != nil {
		a.logger.Error("draw branches failed", "error", err)
	}
	if err := a.renderer.Draw(MarkerMesh, a.markerInstances); err != nil {
		a.logger.Error("draw marker failed", "error", err)
	}

	a.renderer.EndFrame()
	a.renderer.Present()
}

// screenResize records the window size in screen coordinates used to map cursor positions.
func (a *app) screenResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.screenWidth, a.screenHeight = width, height
}

func (a *app) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height
	if a.renderer != nil {
		a.renderer.Resize(width, height)
	}
	a.ctrl.Camera().SetAspect(float32(width) / float32(height))
}
