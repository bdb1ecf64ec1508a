package inserter

import "log/slog"

// InserterBuilderOption is a functional option for configuring an Inserter during construction.
type InserterBuilderOption func(*inserter)

// WithDivergenceAngle sets the tilt given to inserted branches. Defaults to DefaultDivergenceAngle.
//
// Parameters:
//   - radians: the angle in radians
//
// Returns:
//   - InserterBuilderOption: functional option to set the divergence angle
func WithDivergenceAngle(radians float32) InserterBuilderOption {
	return func(i *inserter) {
		i.divergence = radians
	}
}

// WithLogger sets the logger used for insertion events. Defaults to slog.Default().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - InserterBuilderOption: functional option to set the logger
func WithLogger(logger *slog.Logger) InserterBuilderOption {
	return func(i *inserter) {
		if logger != nil {
			i.logger = logger
		}
	}
}
