package branch

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tree/engine/node"
)

// TaperRatio is the top radius of a branch cylinder relative to its base radius.
const TaperRatio = 0.7

var (
	// ErrAlreadyMaterialized is returned when a branch already has a visual.
	ErrAlreadyMaterialized = errors.New("branch: already materialized")
	// ErrParentNotMaterialized is returned when a child is materialized before its parent.
	ErrParentNotMaterialized = errors.New("branch: parent not materialized")
	// ErrNilSceneRoot is returned when the root is materialized without a scene node to attach to.
	ErrNilSceneRoot = errors.New("branch: nil scene root")
	// ErrNotRoot is returned when MaterializeRoot is used for a non-root branch or the reverse.
	ErrNotRoot = errors.New("branch: wrong materialization entry point")
)

// MaterializeRoot creates the root visual and attaches it under sceneRoot.
//
// Parameters:
//   - sceneRoot: the node the tree hangs from
//   - azimuth: rotation about the vertical axis in radians
//
// Returns:
//   - node.Node: the new visual
//   - error: ErrNilSceneRoot or ErrAlreadyMaterialized
func (t *Tree) MaterializeRoot(sceneRoot node.Node, azimuth float32) (node.Node, error) {
	if sceneRoot == nil {
		return nil, ErrNilSceneRoot
	}
	return t.materialize(t.Root(), sceneRoot, azimuth)
}

// Materialize creates the visual of a non-root branch and attaches it under its parent's visual.
// The node is moved along the parent's axis by the branch longitude, turned about that axis by
// azimuth, then tilted by the divergence angle about its own Z axis.
//
// Parameters:
//   - id: the branch to materialize
//   - azimuth: rotation about the parent's axis in radians
//
// Returns:
//   - node.Node: the new visual
//   - error: ErrUnknownBranch, ErrNotRoot, ErrAlreadyMaterialized or ErrParentNotMaterialized
func (t *Tree) Materialize(id ID, azimuth float32) (node.Node, error) {
	b, ok := t.Branch(id)
	if !ok {
		return nil, fmt.Errorf("materialize %d: %w", id, ErrUnknownBranch)
	}
	if b.IsRoot() {
		return nil, fmt.Errorf("materialize %d: %w", id, ErrNotRoot)
	}
	parent := t.Parent(b)
	if !parent.IsMaterialized() {
		return nil, fmt.Errorf("materialize %d under %d: %w", id, parent.id, ErrParentNotMaterialized)
	}
	return t.materialize(b, parent.visual, azimuth)
}

func (t *Tree) materialize(b *Branch, attachTo node.Node, azimuth float32) (node.Node, error) {
	if b.IsMaterialized() {
		return nil, fmt.Errorf("materialize %d: %w", b.id, ErrAlreadyMaterialized)
	}

	n := node.NewNode(
		node.WithName(fmt.Sprintf("branch-%d", b.id)),
		node.WithTag(b.id),
		node.WithCylinder(TaperRatio*b.radius, b.radius, b.length),
	)
	n.TranslateY(b.longitude)
	n.RotateY(azimuth)
	n.RotateZ(b.divergence)
	attachTo.Add(n)

	b.visual = n
	b.azimuth = azimuth
	return n, nil
}

// Detach removes the tree's visuals from the scene by detaching the root visual.
// Branch data is left untouched.
func (t *Tree) Detach() {
	if v := t.Root().visual; v != nil {
		v.Detach()
	}
}
