// Package picker converts a point picked on a branch surface into the branch-local
// attachment parameters used to grow a new child there.
package picker

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tree/common"
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/chewxy/math32"
)

// degenerateEpsilon is the squared XZ distance below which a point is treated as lying on the branch axis.
const degenerateEpsilon = 1e-12

// ErrNotMaterialized is returned when a branch without a visual is resolved.
var ErrNotMaterialized = errors.New("picker: branch not materialized")

// Hover is the branch currently under the pointer.
type Hover struct {
	// Branch is the hovered branch.
	Branch branch.ID
	// Point is the world-space surface point under the pointer.
	Point [3]float32
	// Depth is the hovered branch's depth level.
	Depth int
}

// Pick holds the attachment parameters resolved from a hover point.
type Pick struct {
	Branch    branch.ID
	Longitude float32
	Azimuth   float32
}

// Resolve maps a world-space point on a branch into the longitude and azimuth at which a child
// attached to that branch would grow toward the point.
//
// The longitude is the straight-line distance from the branch origin to the point. Because the
// point lies on the surface rather than the axis this slightly overestimates the distance along
// the axis, which is accepted.
//
// The azimuth is the angle about the branch's local Y axis measured from local +X, in [0, 2π).
// Points with local z > 0 map to 2π minus the unsigned angle so that a child rotated by the
// azimuth and then tilted about its Z axis leans toward the point. A point on the axis itself
// yields azimuth 0.
//
// Parameters:
//   - visual: the branch node
//   - worldPoint: the picked point in world space
//
// Returns:
//   - longitude: distance from the branch origin
//   - azimuth: rotation about the branch axis in radians
func Resolve(visual node.Node, worldPoint [3]float32) (longitude, azimuth float32) {
	longitude = common.Distance3(visual.WorldPosition(), worldPoint)

	local := visual.WorldToLocal(worldPoint)
	local[1] = 0
	if local[0]*local[0]+local[2]*local[2] < degenerateEpsilon {
		return longitude, 0
	}

	angle := common.AngleBetween3(local, [3]float32{1, 0, 0})
	if local[2] > 0 {
		angle = 2*math32.Pi - angle
	}
	if angle >= 2*math32.Pi {
		angle = 0
	}
	return longitude, angle
}

// ResolveBranch resolves a point against a branch of tree.
//
// Parameters:
//   - tree: the tree holding the branch
//   - id: the branch the point lies on
//   - worldPoint: the picked point in world space
//
// Returns:
//   - Pick: the resolved attachment
//   - error: branch.ErrUnknownBranch or ErrNotMaterialized
func ResolveBranch(tree *branch.Tree, id branch.ID, worldPoint [3]float32) (Pick, error) {
	b, ok := tree.Branch(id)
	if !ok {
		return Pick{}, fmt.Errorf("resolve pick on %d: %w", id, branch.ErrUnknownBranch)
	}
	if !b.IsMaterialized() {
		return Pick{}, fmt.Errorf("resolve pick on %d: %w", id, ErrNotMaterialized)
	}
	longitude, azimuth := Resolve(b.Visual(), worldPoint)
	return Pick{Branch: id, Longitude: longitude, Azimuth: azimuth}, nil
}
