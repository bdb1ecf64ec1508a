package app

import "log/slog"

type appOptions struct {
	logger *slog.Logger
}

// AppBuilderOption is a functional option for Initialize.
type AppBuilderOption func(o *appOptions)

// WithLogger sets the logger handed to every component. A nil logger keeps slog.Default().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) AppBuilderOption {
	return func(o *appOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
