package branch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBranch is returned when an ID does not name a branch of the tree.
	ErrUnknownBranch = errors.New("branch: unknown branch")
)

// Tree owns every branch of one generated tree. Branches are only ever appended, so an ID
// stays valid for the lifetime of the tree. A Tree is not safe for concurrent use; it is
// mutated from the frame loop only.
type Tree struct {
	branches []*Branch
	maxDepth int
}

// NewTree creates a tree holding only its root branch (depth 0, longitude 0, no divergence).
//
// Parameters:
//   - length: root length
//   - radius: root base radius
//
// Returns:
//   - *Tree: the new tree
func NewTree(length, radius float32) *Tree {
	root := &Branch{
		id:       0,
		parentID: NoParent,
		length:   length,
		radius:   radius,
	}
	return &Tree{branches: []*Branch{root}}
}

// Root returns the root branch.
func (t *Tree) Root() *Branch {
	return t.branches[0]
}

// Branch looks up a branch by ID.
//
// Parameters:
//   - id: the branch ID
//
// Returns:
//   - *Branch: the branch, nil if unknown
//   - bool: false if the ID does not belong to the tree
func (t *Tree) Branch(id ID) (*Branch, bool) {
	if id < 0 || int(id) >= len(t.branches) {
		return nil, false
	}
	return t.branches[id], true
}

// Parent returns the parent of b, or nil for the root.
func (t *Tree) Parent(b *Branch) *Branch {
	if b == nil || b.parentID == NoParent {
		return nil
	}
	p, _ := t.Branch(b.parentID)
	return p
}

// Len returns the number of branches, root included.
func (t *Tree) Len() int {
	return len(t.branches)
}

// Depth returns the largest depth level present in the tree.
func (t *Tree) Depth() int {
	return t.maxDepth
}

// AddChild creates a branch under parent and appends it to the parent's children.
// The new branch is not materialized.
//
// Parameters:
//   - parent: ID of the parent branch
//   - length: branch length
//   - radius: base radius
//   - longitude: attachment distance along the parent's axis
//   - divergence: tilt away from the parent's axis in radians
//
// Returns:
//   - *Branch: the new branch
//   - error: ErrUnknownBranch if parent is not in the tree
func (t *Tree) AddChild(parent ID, length, radius, longitude, divergence float32) (*Branch, error) {
	p, ok := t.Branch(parent)
	if !ok {
		return nil, fmt.Errorf("add child to %d: %w", parent, ErrUnknownBranch)
	}

	b := &Branch{
		id:         ID(len(t.branches)),
		parentID:   parent,
		length:     length,
		radius:     radius,
		longitude:  longitude,
		divergence: divergence,
		depth:      p.depth + 1,
	}
	t.branches = append(t.branches, b)
	p.children = append(p.children, b.id)
	t.maxDepth = max(t.maxDepth, b.depth)
	return b, nil
}

// Walk visits every branch in pre-order starting at the root, children in insertion order.
// Returning false from fn stops the walk.
//
// Parameters:
//   - fn: the visitor
func (t *Tree) Walk(fn func(*Branch) bool) {
	t.walk(t.Root(), fn)
}

func (t *Tree) walk(b *Branch, fn func(*Branch) bool) bool {
	if !fn(b) {
		return false
	}
	for _, id := range b.children {
		if !t.walk(t.branches[id], fn) {
			return false
		}
	}
	return true
}

// PostOrder visits the subtree rooted at id with children before their parent.
//
// Parameters:
//   - id: the subtree root
//   - fn: the visitor
//
// Returns:
//   - error: ErrUnknownBranch if id is not in the tree
func (t *Tree) PostOrder(id ID, fn func(*Branch)) error {
	b, ok := t.Branch(id)
	if !ok {
		return fmt.Errorf("post-order from %d: %w", id, ErrUnknownBranch)
	}
	t.postOrder(b, fn)
	return nil
}

func (t *Tree) postOrder(b *Branch, fn func(*Branch)) {
	for _, id := range b.children {
		t.postOrder(t.branches[id], fn)
	}
	fn(b)
}
