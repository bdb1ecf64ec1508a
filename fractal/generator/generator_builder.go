package generator

import (
	"log/slog"

	"cogentcore.org/core/base/randx"
)

// GeneratorBuilderOption is a functional option for configuring a Generator during construction.
type GeneratorBuilderOption func(*generator)

// WithRand sets the random source. Tests pass a seeded randx.SysRand for repeatable trees.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - GeneratorBuilderOption: functional option to set the random source
func WithRand(rng randx.Rand) GeneratorBuilderOption {
	return func(g *generator) {
		g.rng = rng
	}
}

// WithSeed uses a randx.SysRand seeded with seed.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - GeneratorBuilderOption: functional option to seed the random source
func WithSeed(seed int64) GeneratorBuilderOption {
	return func(g *generator) {
		g.rng = randx.NewSysRand(seed)
	}
}

// WithRootLength sets the length of the root branch. Must be positive.
//
// Parameters:
//   - length: root length
//
// Returns:
//   - GeneratorBuilderOption: functional option to set the root length
func WithRootLength(length float32) GeneratorBuilderOption {
	if length <= 0 {
		panic("generator: root length must be positive")
	}
	return func(g *generator) {
		g.rootLength = length
	}
}

// WithRootRadius sets the base radius of the root branch. Must be positive.
//
// Parameters:
//   - radius: root radius
//
// Returns:
//   - GeneratorBuilderOption: functional option to set the root radius
func WithRootRadius(radius float32) GeneratorBuilderOption {
	if radius <= 0 {
		panic("generator: root radius must be positive")
	}
	return func(g *generator) {
		g.rootRadius = radius
	}
}

// WithDivergenceAngle sets the tilt magnitude between generated children and their parent.
//
// Parameters:
//   - radians: the angle in radians
//
// Returns:
//   - GeneratorBuilderOption: functional option to set the divergence angle
func WithDivergenceAngle(radians float32) GeneratorBuilderOption {
	return func(g *generator) {
		g.divergence = radians
	}
}

// WithLogger sets the logger used for generation events. Defaults to slog.Default().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - GeneratorBuilderOption: functional option to set the logger
func WithLogger(logger *slog.Logger) GeneratorBuilderOption {
	return func(g *generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}
