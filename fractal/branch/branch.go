// Package branch holds the branch data model: an append-only arena of branches forming a
// strict tree, plus the step that turns a branch into a scene-graph node.
package branch

import (
	"github.com/Carmen-Shannon/oxy-tree/engine/node"
)

// ID indexes a branch inside its Tree.
type ID int

// NoParent is the parent ID of the root branch.
const NoParent ID = -1

// Branch is one segment of the tree. Fields are fixed at creation; only the visual handle
// is filled in later by materialization.
type Branch struct {
	id       ID
	parentID ID
	children []ID

	length     float32
	radius     float32
	longitude  float32
	divergence float32
	azimuth    float32
	depth      int

	visual node.Node
}

// ID returns the branch's index in its tree.
func (b *Branch) ID() ID { return b.id }

// ParentID returns the parent branch ID, or NoParent for the root.
func (b *Branch) ParentID() ID { return b.parentID }

// IsRoot reports whether the branch has no parent.
func (b *Branch) IsRoot() bool { return b.parentID == NoParent }

// Children returns the child IDs in insertion order. The slice is a copy.
func (b *Branch) Children() []ID {
	out := make([]ID, len(b.children))
	copy(out, b.children)
	return out
}

// Length returns the branch length along its local axis.
func (b *Branch) Length() float32 { return b.length }

// Radius returns the radius at the branch base.
func (b *Branch) Radius() float32 { return b.radius }

// Longitude returns the distance along the parent's axis at which the branch is attached.
func (b *Branch) Longitude() float32 { return b.longitude }

// DivergenceAngle returns the tilt away from the parent's axis in radians.
func (b *Branch) DivergenceAngle() float32 { return b.divergence }

// Azimuth returns the rotation about the parent's axis used when the branch was
// materialized. It is zero until then.
func (b *Branch) Azimuth() float32 { return b.azimuth }

// DepthLevel returns 0 for the root and parent depth + 1 otherwise.
func (b *Branch) DepthLevel() int { return b.depth }

// Visual returns the scene-graph node drawn for the branch, or nil before materialization.
func (b *Branch) Visual() node.Node { return b.visual }

// IsMaterialized reports whether the branch has a visual.
func (b *Branch) IsMaterialized() bool { return b.visual != nil }
