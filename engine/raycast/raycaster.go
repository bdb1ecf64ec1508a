package raycast

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/chewxy/math32"
)

// DefaultParallelThreshold is the candidate count at which intersection tests are
// split across the worker pool instead of running on the calling goroutine.
const DefaultParallelThreshold = 512

// FrustumSource supplies the view frustum used to discard off-screen nodes before exact tests.
type FrustumSource interface {
	Frustum() common.Frustum
}

// Hit describes the nearest intersection found by a Raycaster.
type Hit struct {
	Node     node.Node
	Point    [3]float32
	Distance float32
	Tag      any
}

type candidate struct {
	n     node.Node
	shape node.Cylinder
	world [16]float32
}

type raycaster struct {
	mu *sync.Mutex

	pool      worker.DynamicWorkerPool
	ownsPool  bool
	workers   int
	threshold int
	frustum   FrustumSource
}

// Raycaster finds the nearest intersection between a ray and the cylinder-shaped nodes of a subtree.
type Raycaster interface {
	// IntersectSubtree tests every visible node under root (root included) that carries a
	// cylinder shape. Hidden nodes hide their whole subtree.
	//
	// Parameters:
	//   - ray: the world-space ray, direction normalized
	//   - root: the subtree to test
	//
	// Returns:
	//   - Hit: the nearest hit
	//   - bool: false if nothing was hit
	IntersectSubtree(ray common.Ray, root node.Node) (Hit, bool)

	// Release stops the worker pool if the Raycaster created it.
	Release()
}

var _ Raycaster = &raycaster{}

// NewRaycaster creates a Raycaster. Without WithWorkerPool or WithWorkers all tests run
// on the calling goroutine.
//
// Parameters:
//   - options: variadic list of RaycasterBuilderOption functions
//
// Returns:
//   - Raycaster: the new raycaster
func NewRaycaster(options ...RaycasterBuilderOption) Raycaster {
	r := &raycaster{
		mu:        &sync.Mutex{},
		threshold: DefaultParallelThreshold,
	}
	for _, option := range options {
		option(r)
	}
	if r.pool == nil && r.workers > 1 {
		r.pool = worker.NewDynamicWorkerPool(r.workers, 256, defaultIdleTimeout)
		r.ownsPool = true
	}
	return r
}

func (r *raycaster) IntersectSubtree(ray common.Ray, root node.Node) (Hit, bool) {
	if root == nil {
		return Hit{}, false
	}

	var frustum *common.Frustum
	if r.frustum != nil {
		f := r.frustum.Frustum()
		frustum = &f
	}

	// World matrices are resolved up front on this goroutine so workers only run pure math.
	var cands []candidate
	var collect func(n node.Node, parentWorld *[16]float32)
	collect = func(n node.Node, parentWorld *[16]float32) {
		if !n.Visible() {
			return
		}
		var world [16]float32
		if parentWorld == nil {
			world = n.WorldMatrix()
		} else {
			local := n.LocalMatrix()
			common.Mul4(world[:], parentWorld[:], local[:])
		}
		if s := n.Shape(); s != nil && s.Height > 0 {
			center, radius := boundingSphere(world, *s)
			if (frustum == nil || !frustum.SphereOutside(center, radius)) && intersectSphere(ray, center, radius) {
				cands = append(cands, candidate{n: n, shape: *s, world: world})
			}
		}
		for _, c := range n.Children() {
			collect(c, &world)
		}
	}
	collect(root, nil)

	if len(cands) == 0 {
		return Hit{}, false
	}

	r.mu.Lock()
	pool, threshold := r.pool, r.threshold
	r.mu.Unlock()

	var best Hit
	var found bool
	if pool == nil || len(cands) < threshold {
		best, found = nearest(ray, cands)
	} else {
		best, found = r.nearestParallel(pool, ray, cands)
	}
	return best, found
}

func (r *raycaster) nearestParallel(pool worker.DynamicWorkerPool, ray common.Ray, cands []candidate) (Hit, bool) {
	chunks := max(pool.GetMaxWorkers(), 1)
	size := (len(cands) + chunks - 1) / chunks

	type result struct {
		hit   Hit
		found bool
	}
	results := make([]result, chunks)

	var wg sync.WaitGroup
	for i := range chunks {
		lo := i * size
		if lo >= len(cands) {
			break
		}
		hi := min(lo+size, len(cands))
		slot := i
		part := cands[lo:hi]

		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: slot,
			Do: func() (any, error) {
				defer wg.Done()
				h, ok := nearest(ray, part)
				results[slot] = result{hit: h, found: ok}
				return nil, nil
			},
		})
	}
	wg.Wait()

	var best Hit
	var found bool
	for _, res := range results {
		if res.found && (!found || res.hit.Distance < best.Distance) {
			best, found = res.hit, true
		}
	}
	return best, found
}

func (r *raycaster) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ownsPool && r.pool != nil {
		r.pool.Stop()
	}
	r.pool = nil
}

// nearest runs the exact test against every candidate and keeps the closest hit.
func nearest(ray common.Ray, cands []candidate) (Hit, bool) {
	var best Hit
	found := false
	dirLen := common.Length3(ray.Direction)

	for i := range cands {
		c := &cands[i]
		var inv [16]float32
		if !common.Invert4(inv[:], c.world[:]) {
			continue
		}
		t, ok := IntersectCylinder(ray.Transform(inv[:]), c.shape)
		if !ok {
			continue
		}
		dist := t * dirLen
		if !found || dist < best.Distance {
			best = Hit{Node: c.n, Point: ray.At(t), Distance: dist, Tag: c.n.Tag()}
			found = true
		}
	}
	return best, found
}

// boundingSphere returns a world-space sphere enclosing the cylinder under the given world matrix.
func boundingSphere(world [16]float32, s node.Cylinder) ([3]float32, float32) {
	center := common.TransformPoint4(world[:], [3]float32{0, s.Height / 2, 0})
	sx := common.Length3([3]float32{world[0], world[1], world[2]})
	sy := common.Length3([3]float32{world[4], world[5], world[6]})
	sz := common.Length3([3]float32{world[8], world[9], world[10]})
	scale := math32.Max(sx, math32.Max(sy, sz))
	return center, s.BoundingRadius() * scale
}
