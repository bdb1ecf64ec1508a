package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-tree/engine/light"
	"github.com/Carmen-Shannon/oxy-tree/engine/renderer/mesh"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceSource is the window-side information a Renderer needs to create its surface.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	light    light.Light
	meshKeys map[string]struct{}

	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *wgpu.Color
}

// Renderer draws instanced meshes into a window surface. A frame is drawn by calling
// BeginFrame, any number of Draw calls, EndFrame and Present, all from the thread that
// created the Renderer.
type Renderer interface {
	// RegisterMesh uploads a mesh under key, replacing a previous mesh with that key.
	//
	// Parameters:
	//   - key: the mesh key used by Draw
	//   - m: the mesh
	//
	// Returns:
	//   - error: an error if the GPU buffers could not be created
	RegisterMesh(key string, m mesh.Mesh) error

	// HasMesh reports whether a mesh was registered under key.
	HasMesh(key string) bool

	// Resize reconfigures the surface for a new window size. A zero size pauses drawing.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background color.
	//
	// Parameters:
	//   - r, g, b, a: color components in [0, 1]
	SetClearColor(r, g, b, a float64)

	// SetLight replaces the scene light. A nil light is ignored.
	//
	// Parameters:
	//   - l: the directional light, read at every BeginFrame
	SetLight(l light.Light)

	// Light returns the scene light.
	Light() light.Light

	// BeginFrame starts a frame and uploads the camera matrix for it.
	//
	// Parameters:
	//   - viewProj: the column-major view-projection matrix
	//
	// Returns:
	//   - error: ErrSurfaceUnavailable while minimized, or a swapchain error
	BeginFrame(viewProj [16]float32) error

	// Draw draws every instance of the mesh under key in the current frame.
	//
	// Parameters:
	//   - key: the mesh key
	//   - instances: per-instance transforms and colors
	//
	// Returns:
	//   - error: ErrNoFrame, ErrUnknownMesh, or a GPU allocation error
	Draw(key string, instances []mesh.Instance) error

	// EndFrame ends the frame's render pass and submits it.
	EndFrame()

	// Present shows the finished frame.
	Present()

	// Release frees all GPU resources. The Renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the window's surface and configures it at the window's size.
// It panics if no adapter, device or pipeline can be created, since nothing can be drawn without them.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - source: the window providing the surface
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(backendType RendererBackendType, source SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		light:       light.NewLight(),
		meshKeys:    make(map[string]struct{}),
	}

	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(source.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}
	if err != nil {
		panic(fmt.Sprintf("failed to create renderer backend: %v", err))
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	r.backend.ConfigureSurface(source.Width(), source.Height())
	if err := r.backend.RegisterMeshPipeline(); err != nil {
		panic(fmt.Sprintf("failed to create mesh pipeline: %v", err))
	}
	return r
}

func (r *renderer) RegisterMesh(key string, m mesh.Mesh) error {
	if err := r.backend.InitMeshBuffers(key, m); err != nil {
		return err
	}
	r.mu.Lock()
	r.meshKeys[key] = struct{}{}
	r.mu.Unlock()
	return nil
}

func (r *renderer) HasMesh(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.meshKeys[key]
	return ok
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(red, green, blue, alpha float64) {
	r.backend.SetClearColor(wgpu.Color{R: red, G: green, B: blue, A: alpha})
}

func (r *renderer) SetLight(l light.Light) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.light = l
}

func (r *renderer) Light() light.Light {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.light
}

func (r *renderer) BeginFrame(viewProj [16]float32) error {
	r.backend.WriteUniforms(viewProj, light.ToGPU(r.Light()))
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(key string, instances []mesh.Instance) error {
	return r.backend.DrawCall(key, instances)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}
