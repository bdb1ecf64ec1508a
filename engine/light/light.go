package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tree/common"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	direction [3]float32
	color     [3]float32
	intensity float32
	ambient   float32
	enabled   bool
}

// Light is the scene's directional light, a distant source like the sun that lights every
// fragment from the same direction with no attenuation. It also carries the ambient term
// applied to surfaces facing away from it.
//
// The renderer marshals it into the frame uniforms with ToGPU.
type Light interface {
	// Direction returns the normalized direction the light travels.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// SetDirection sets the direction the light travels. A zero vector is ignored.
	//
	// Parameters:
	//   - x, y, z: the direction, need not be normalized
	SetDirection(x, y, z float32)

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components in [0, 1]
	SetColor(r, g, b float32)

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// SetIntensity sets the scalar intensity multiplier. Negative values are clamped to 0.
	SetIntensity(intensity float32)

	// Ambient returns the fraction of the surface color shown where the light does not reach.
	Ambient() float32

	// SetAmbient sets the ambient fraction, clamped to [0, 1].
	SetAmbient(ambient float32)

	// Enabled returns whether the light contributes. A disabled light leaves only the ambient term.
	Enabled() bool

	// SetEnabled turns the light on or off.
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a white directional light shining down and away from the default camera.
//
// Parameters:
//   - options: variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the new light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		direction: common.Normalize3([3]float32{-0.4, -1, -0.3}),
		color:     [3]float32{1, 1, 1},
		intensity: 1,
		ambient:   0.35,
		enabled:   true,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setDirection(x, y, z)
}

func (l *lightImpl) setDirection(x, y, z float32) {
	if x == 0 && y == 0 && z == 0 {
		return
	}
	l.direction = common.Normalize3([3]float32{x, y, z})
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = max(intensity, 0)
}

func (l *lightImpl) Ambient() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ambient
}

func (l *lightImpl) SetAmbient(ambient float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient = min(max(ambient, 0), 1)
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}
