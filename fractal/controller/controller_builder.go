package controller

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-tree/engine/camera"
	"github.com/Carmen-Shannon/oxy-tree/engine/raycast"
	"github.com/Carmen-Shannon/oxy-tree/fractal/generator"
	"github.com/Carmen-Shannon/oxy-tree/fractal/inserter"
)

// ControllerBuilderOption is a functional option for configuring a Controller during construction.
type ControllerBuilderOption func(*controller)

// WithCamera sets the camera used to build picking rays. Its controller is advanced every Update.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ControllerBuilderOption: functional option to set the camera
func WithCamera(cam camera.Camera) ControllerBuilderOption {
	return func(c *controller) {
		c.camera = cam
	}
}

// WithRaycaster sets the raycaster used for hover picking.
//
// Parameters:
//   - r: the raycaster
//
// Returns:
//   - ControllerBuilderOption: functional option to set the raycaster
func WithRaycaster(r raycast.Raycaster) ControllerBuilderOption {
	return func(c *controller) {
		c.raycaster = r
	}
}

// WithGenerator sets the tree generator.
//
// Parameters:
//   - g: the generator
//
// Returns:
//   - ControllerBuilderOption: functional option to set the generator
func WithGenerator(g generator.Generator) ControllerBuilderOption {
	return func(c *controller) {
		c.generator = g
	}
}

// WithInserter sets the branch inserter.
//
// Parameters:
//   - i: the inserter
//
// Returns:
//   - ControllerBuilderOption: functional option to set the inserter
func WithInserter(i inserter.Inserter) ControllerBuilderOption {
	return func(c *controller) {
		c.inserter = i
	}
}

// WithLogger sets the logger. Defaults to slog.Default(). Default components inherit it.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ControllerBuilderOption: functional option to set the logger
func WithLogger(logger *slog.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAnimationSpeed sets the initial sway speed in degrees per second.
//
// Parameters:
//   - degreesPerSecond: the speed
//
// Returns:
//   - ControllerBuilderOption: functional option to set the speed
func WithAnimationSpeed(degreesPerSecond float32) ControllerBuilderOption {
	return func(c *controller) {
		c.speed = degreesPerSecond
	}
}

// WithResetDuration sets how long ResetView takes. Zero snaps immediately.
//
// Parameters:
//   - seconds: the duration, negative values are treated as zero
//
// Returns:
//   - ControllerBuilderOption: functional option to set the reset duration
func WithResetDuration(seconds float32) ControllerBuilderOption {
	return func(c *controller) {
		c.resetDuration = max(seconds, 0)
	}
}
