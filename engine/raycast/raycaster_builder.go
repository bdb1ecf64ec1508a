package raycast

import (
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const defaultIdleTimeout = 1 * time.Second

// RaycasterBuilderOption is a functional option for configuring a Raycaster during construction.
type RaycasterBuilderOption func(*raycaster)

// WithWorkerPool shares an existing worker pool with the Raycaster. The pool is not stopped
// by Release.
//
// Parameters:
//   - pool: the pool used for large subtrees
//
// Returns:
//   - RaycasterBuilderOption: functional option to set the pool
func WithWorkerPool(pool worker.DynamicWorkerPool) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.pool = pool
		r.ownsPool = false
	}
}

// WithWorkers makes the Raycaster create and own a worker pool of the given size.
// Values of 1 or less keep all work on the calling goroutine.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - RaycasterBuilderOption: functional option to set the worker count
func WithWorkers(n int) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.workers = n
	}
}

// WithParallelThreshold sets the candidate count at which work is fanned out to the pool.
//
// Parameters:
//   - n: the threshold, must be positive
//
// Returns:
//   - RaycasterBuilderOption: functional option to set the threshold
func WithParallelThreshold(n int) RaycasterBuilderOption {
	if n <= 0 {
		panic("raycast: parallel threshold must be positive")
	}
	return func(r *raycaster) {
		r.threshold = n
	}
}

// WithFrustumCulling discards nodes whose bounding sphere lies outside the source's frustum.
//
// Parameters:
//   - source: usually the active camera
//
// Returns:
//   - RaycasterBuilderOption: functional option to enable culling
func WithFrustumCulling(source FrustumSource) RaycasterBuilderOption {
	return func(r *raycaster) {
		r.frustum = source
	}
}
