package node

import "github.com/Carmen-Shannon/oxy-tree/common"

// NodeBuilderOption is a functional option for configuring a Node during construction.
type NodeBuilderOption func(*node)

// WithName sets the debug name of the Node.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - NodeBuilderOption: functional option to set the name
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithTag attaches an application value to the Node.
//
// Parameters:
//   - tag: the value returned by Tag
//
// Returns:
//   - NodeBuilderOption: functional option to set the tag
func WithTag(tag any) NodeBuilderOption {
	return func(n *node) {
		n.tag = tag
	}
}

// WithCylinder gives the Node a pickable tapered cylinder shape.
// Radii and height must be non-negative.
//
// Parameters:
//   - radiusTop: radius of the cap at local y = height
//   - radiusBottom: radius of the cap at the local origin
//   - height: length along local +Y
//
// Returns:
//   - NodeBuilderOption: functional option to set the shape
func WithCylinder(radiusTop, radiusBottom, height float32) NodeBuilderOption {
	if radiusTop < 0 || radiusBottom < 0 || height < 0 {
		panic("node: cylinder dimensions must be non-negative")
	}
	return func(n *node) {
		n.shape = &Cylinder{RadiusTop: radiusTop, RadiusBottom: radiusBottom, Height: height}
	}
}

// WithPosition sets the initial local translation.
//
// Parameters:
//   - p: the translation
//
// Returns:
//   - NodeBuilderOption: functional option to set the position
func WithPosition(p [3]float32) NodeBuilderOption {
	return func(n *node) {
		n.position = p
	}
}

// WithRotation sets the initial local rotation.
//
// Parameters:
//   - q: the rotation quaternion
//
// Returns:
//   - NodeBuilderOption: functional option to set the rotation
func WithRotation(q common.Quat) NodeBuilderOption {
	return func(n *node) {
		n.rotation = q.Normalize()
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - s: per-axis scale
//
// Returns:
//   - NodeBuilderOption: functional option to set the scale
func WithScale(s [3]float32) NodeBuilderOption {
	return func(n *node) {
		n.scale = s
	}
}

// WithVisible sets the initial visibility. Nodes are visible by default.
//
// Parameters:
//   - visible: true to show
//
// Returns:
//   - NodeBuilderOption: functional option to set visibility
func WithVisible(visible bool) NodeBuilderOption {
	return func(n *node) {
		n.visible = visible
	}
}
