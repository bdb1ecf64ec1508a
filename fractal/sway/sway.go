// Package sway animates a tree by spinning every branch about its own axis, children
// first, so each branch keeps its tilt relative to its parent while it turns.
package sway

import (
	"github.com/Carmen-Shannon/oxy-tree/fractal/branch"
	"github.com/chewxy/math32"
)

// DefaultSpeed is the default animation speed in degrees per second.
const DefaultSpeed float32 = 10

// Increment converts an animation speed and a frame duration into a rotation step.
//
// Parameters:
//   - speedDegPerSec: speed in degrees per second
//   - dtSeconds: frame duration in seconds
//
// Returns:
//   - float32: the step in radians
func Increment(speedDegPerSec, dtSeconds float32) float32 {
	return speedDegPerSec * math32.Pi / 180 * dtSeconds
}

// Propagate rotates every branch of the subtree rooted at id by step radians about its own
// axis. Children are visited before their parent. For each non-root branch the divergence
// tilt is undone, the branch is turned about its local Y axis, and the tilt is reapplied,
// which amounts to a spin about the branch's tilted axis. The root never turns.
// Unmaterialized branches are counted but not moved.
//
// Parameters:
//   - tree: the tree to animate
//   - id: the subtree root, usually the tree root
//   - step: the rotation in radians
//
// Returns:
//   - int: the number of branches visited, 0 if id is unknown or tree is nil
func Propagate(tree *branch.Tree, id branch.ID, step float32) int {
	if tree == nil {
		return 0
	}
	visited := 0
	err := tree.PostOrder(id, func(b *branch.Branch) {
		visited++
		if b.IsRoot() || !b.IsMaterialized() {
			return
		}
		v := b.Visual()
		v.RotateZ(-b.DivergenceAngle())
		v.RotateY(step)
		v.RotateZ(b.DivergenceAngle())
	})
	if err != nil {
		return 0
	}
	return visited
}
