package node

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-tree/common"
)

var nextID atomic.Uint64

// Cylinder describes a capped, possibly tapered cylinder in a node's local space.
// The base cap sits on the local origin and the body extends along local +Y for Height units.
type Cylinder struct {
	RadiusTop    float32
	RadiusBottom float32
	Height       float32
}

// BoundingRadius returns the radius of a sphere centered on the cylinder's local midpoint
// that fully encloses it.
func (c Cylinder) BoundingRadius() float32 {
	r := max(c.RadiusTop, c.RadiusBottom)
	return common.Length3([3]float32{r, c.Height / 2, 0})
}

type node struct {
	mu *sync.RWMutex

	id       uint64
	name     string
	parent   *node
	children []*node

	position [3]float32
	rotation common.Quat
	scale    [3]float32

	tag     any
	visible bool
	shape   *Cylinder
}

// Node is a CPU scene-graph node holding a local transform relative to its parent.
// Transforms compose parent * local, so moving a node carries its whole subtree with it.
// Nodes are safe to read from several goroutines; structural edits are expected to
// happen on a single goroutine.
type Node interface {
	// ID returns the node's process-unique identifier.
	//
	// Returns:
	//   - uint64: the node ID
	ID() uint64

	// Name returns the node's debug name.
	//
	// Returns:
	//   - string: the name, possibly empty
	Name() string

	// Parent returns the node this node is attached to, or nil.
	//
	// Returns:
	//   - Node: the parent node or nil
	Parent() Node

	// Children returns a snapshot of the attached children in insertion order.
	//
	// Returns:
	//   - []Node: the child nodes
	Children() []Node

	// Add attaches child under this node, detaching it from any previous parent first.
	// Adding a node to itself or to one of its own descendants is ignored.
	//
	// Parameters:
	//   - child: the node to attach
	Add(child Node)

	// Remove detaches child if it is a direct child of this node.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: true if the child was found and detached
	Remove(child Node) bool

	// Detach removes this node from its parent, if any.
	Detach()

	// Position returns the local translation.
	//
	// Returns:
	//   - [3]float32: the translation relative to the parent
	Position() [3]float32

	// SetPosition sets the local translation.
	//
	// Parameters:
	//   - p: the new translation relative to the parent
	SetPosition(p [3]float32)

	// Rotation returns the local rotation quaternion.
	//
	// Returns:
	//   - common.Quat: the rotation relative to the parent
	Rotation() common.Quat

	// SetRotation sets the local rotation quaternion. The value is normalized.
	//
	// Parameters:
	//   - q: the new rotation relative to the parent
	SetRotation(q common.Quat)

	// Scale returns the local scale.
	//
	// Returns:
	//   - [3]float32: per-axis scale
	Scale() [3]float32

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: per-axis scale
	SetScale(s [3]float32)

	// TranslateOnAxis moves the node by distance along axis, where axis is expressed in the
	// node's own rotated frame.
	//
	// Parameters:
	//   - axis: unit axis in local space
	//   - distance: distance to move
	TranslateOnAxis(axis [3]float32, distance float32)

	// RotateOnAxis rotates the node by angle radians about axis in its own rotated frame.
	//
	// Parameters:
	//   - axis: unit axis in local space
	//   - angle: rotation in radians
	RotateOnAxis(axis [3]float32, angle float32)

	// TranslateY moves the node along its own Y axis.
	TranslateY(distance float32)

	// RotateY rotates the node about its own Y axis.
	RotateY(angle float32)

	// RotateZ rotates the node about its own Z axis.
	RotateZ(angle float32)

	// LocalMatrix returns the column-major T*R*S matrix of the local transform.
	//
	// Returns:
	//   - [16]float32: the local matrix
	LocalMatrix() [16]float32

	// WorldMatrix returns the column-major matrix mapping local space to world space.
	//
	// Returns:
	//   - [16]float32: the world matrix
	WorldMatrix() [16]float32

	// WorldPosition returns the world-space position of the local origin.
	//
	// Returns:
	//   - [3]float32: world position
	WorldPosition() [3]float32

	// WorldToLocal maps a world-space point into this node's local frame.
	// A singular world matrix (zero scale somewhere up the chain) returns the point unchanged.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - [3]float32: the point in local space
	WorldToLocal(p [3]float32) [3]float32

	// LocalToWorld maps a point in this node's local frame into world space.
	//
	// Parameters:
	//   - p: the local-space point
	//
	// Returns:
	//   - [3]float32: the point in world space
	LocalToWorld(p [3]float32) [3]float32

	// Tag returns the application value attached to the node.
	//
	// Returns:
	//   - any: the tag, nil if unset
	Tag() any

	// SetTag attaches an application value to the node.
	//
	// Parameters:
	//   - tag: the value to attach
	SetTag(tag any)

	// Visible reports whether the node takes part in picking and drawing.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetVisible shows or hides the node. Hidden nodes hide their subtree.
	//
	// Parameters:
	//   - visible: true to show
	SetVisible(visible bool)

	// Shape returns the pickable cylinder attached to the node, or nil.
	//
	// Returns:
	//   - *Cylinder: the shape or nil
	Shape() *Cylinder
}

var _ Node = &node{}

// NewNode creates a detached node with an identity transform.
//
// Parameters:
//   - options: variadic list of NodeBuilderOption functions to configure the node
//
// Returns:
//   - Node: the new node
func NewNode(options ...NodeBuilderOption) Node {
	n := &node{
		mu:       &sync.RWMutex{},
		id:       nextID.Add(1),
		rotation: common.QuatIdentity(),
		scale:    [3]float32{1, 1, 1},
		visible:  true,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

func (n *node) ID() uint64 {
	return n.id
}

func (n *node) Name() string {
	return n.name
}

func (n *node) Parent() Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) Add(child Node) {
	c, ok := child.(*node)
	if !ok || c == nil || c == n || c.isAncestorOf(n) {
		return
	}
	c.Detach()

	n.mu.Lock()
	n.children = append(n.children, c)
	n.mu.Unlock()

	c.mu.Lock()
	c.parent = n
	c.mu.Unlock()
}

func (n *node) Remove(child Node) bool {
	c, ok := child.(*node)
	if !ok || c == nil {
		return false
	}

	n.mu.Lock()
	found := false
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			found = true
			break
		}
	}
	n.mu.Unlock()

	if found {
		c.mu.Lock()
		c.parent = nil
		c.mu.Unlock()
	}
	return found
}

func (n *node) Detach() {
	n.mu.RLock()
	p := n.parent
	n.mu.RUnlock()
	if p != nil {
		p.Remove(n)
	}
}

func (n *node) Position() [3]float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.position
}

func (n *node) SetPosition(p [3]float32) {
	n.mu.Lock()
	n.position = p
	n.mu.Unlock()
}

func (n *node) Rotation() common.Quat {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.rotation
}

func (n *node) SetRotation(q common.Quat) {
	n.mu.Lock()
	n.rotation = q.Normalize()
	n.mu.Unlock()
}

func (n *node) Scale() [3]float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.scale
}

func (n *node) SetScale(s [3]float32) {
	n.mu.Lock()
	n.scale = s
	n.mu.Unlock()
}

func (n *node) TranslateOnAxis(axis [3]float32, distance float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	d := n.rotation.Rotate(axis)
	n.position = common.Add3(n.position, common.Scale3(d, distance))
}

func (n *node) RotateOnAxis(axis [3]float32, angle float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rotation = n.rotation.Mul(common.QuatFromAxisAngle(axis, angle)).Normalize()
}

func (n *node) TranslateY(distance float32) {
	n.TranslateOnAxis([3]float32{0, 1, 0}, distance)
}

func (n *node) RotateY(angle float32) {
	n.RotateOnAxis([3]float32{0, 1, 0}, angle)
}

func (n *node) RotateZ(angle float32) {
	n.RotateOnAxis([3]float32{0, 0, 1}, angle)
}

func (n *node) LocalMatrix() [16]float32 {
	n.mu.RLock()
	pos, rot, scale := n.position, n.rotation, n.scale
	n.mu.RUnlock()

	var m [16]float32
	common.ComposeMatrix(m[:], pos, rot, scale)
	return m
}

func (n *node) WorldMatrix() [16]float32 {
	local := n.LocalMatrix()

	n.mu.RLock()
	p := n.parent
	n.mu.RUnlock()
	if p == nil {
		return local
	}

	parent := p.WorldMatrix()
	var out [16]float32
	common.Mul4(out[:], parent[:], local[:])
	return out
}

func (n *node) WorldPosition() [3]float32 {
	m := n.WorldMatrix()
	return [3]float32{m[12], m[13], m[14]}
}

func (n *node) WorldToLocal(p [3]float32) [3]float32 {
	m := n.WorldMatrix()
	var inv [16]float32
	if !common.Invert4(inv[:], m[:]) {
		return p
	}
	return common.TransformPoint4(inv[:], p)
}

func (n *node) LocalToWorld(p [3]float32) [3]float32 {
	m := n.WorldMatrix()
	return common.TransformPoint4(m[:], p)
}

func (n *node) Tag() any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tag
}

func (n *node) SetTag(tag any) {
	n.mu.Lock()
	n.tag = tag
	n.mu.Unlock()
}

func (n *node) Visible() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.visible
}

func (n *node) SetVisible(visible bool) {
	n.mu.Lock()
	n.visible = visible
	n.mu.Unlock()
}

func (n *node) Shape() *Cylinder {
	return n.shape
}

// isAncestorOf reports whether n appears on the parent chain of other.
func (n *node) isAncestorOf(other *node) bool {
	for cur := other; cur != nil; {
		cur.mu.RLock()
		p := cur.parent
		cur.mu.RUnlock()
		if p == n {
			return true
		}
		cur = p
	}
	return false
}

// Walk visits root and every descendant in pre-order. Returning false from fn skips
// the visited node's children.
//
// Parameters:
//   - root: the subtree root
//   - fn: the visitor
func Walk(root Node, fn func(Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children() {
		Walk(c, fn)
	}
}
