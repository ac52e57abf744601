package bintree

import "fmt"

// Side tags what a Cursor points at.
type Side uint8

const (
	// Self points at a node. With node 0 it is the virtual root slot.
	Self Side = iota
	// Left points at the empty left child slot of a node.
	Left
	// Right points at the empty right child slot of a node.
	Right
)

func (s Side) String() string {
	switch s {
	case Self:
		return "self"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Cursor is a navigation handle. It is either a reference to an existing node
// or a virtual slot: a node plus the empty side where a child could be
// attached.
//
// Cursors are plain values and compare with == structurally. A node reference
// stays valid for the lifetime of the tree, but what it reports as parent or
// children changes with every CreateNode and rotation, so such facts must be
// re-read instead of cached.
type Cursor[T any] struct {
	tree *Tree[T]
	node uint32
	side Side
}

// IsNode reports whether the cursor references an existing node.
func (c Cursor[T]) IsNode() bool {
	return c.side == Self && c.node != 0
}

// Side returns the cursor tag.
func (c Cursor[T]) Side() Side {
	return c.side
}

// Equal checks for the same underlying node and the same tag.
func (c Cursor[T]) Equal(other Cursor[T]) bool {
	return c == other
}

// Value returns the stored value. Allows mutating it in place. The pointer is
// valid until the next CreateNode on the tree.
//
// REQUIRES: c.IsNode().
func (c Cursor[T]) Value() *T {
	doAssert(c.IsNode(), "value of an empty slot")

	return &c.tree.storage[c.node].value
}

// Left returns the left child, or the virtual slot on that side if it is absent.
//
// REQUIRES: c.IsNode().
func (c Cursor[T]) Left() Cursor[T] {
	doAssert(c.IsNode(), "left of an empty slot")

	if child := c.tree.storage[c.node].left; child != 0 {
		return Cursor[T]{tree: c.tree, node: child, side: Self}
	}

	return Cursor[T]{tree: c.tree, node: c.node, side: Left}
}

// Right returns the right child, or the virtual slot on that side if it is absent.
//
// REQUIRES: c.IsNode().
func (c Cursor[T]) Right() Cursor[T] {
	doAssert(c.IsNode(), "right of an empty slot")

	if child := c.tree.storage[c.node].right; child != 0 {
		return Cursor[T]{tree: c.tree, node: child, side: Self}
	}

	return Cursor[T]{tree: c.tree, node: c.node, side: Right}
}

// Parent returns the parent node. The root and every virtual slot report the
// virtual root slot.
func (c Cursor[T]) Parent() Cursor[T] {
	if !c.IsNode() {
		return Cursor[T]{tree: c.tree, node: 0, side: Self}
	}

	return Cursor[T]{tree: c.tree, node: c.tree.storage[c.node].parent, side: Self}
}

// IsRoot reports whether the cursor references the root node.
func (c Cursor[T]) IsRoot() bool {
	return c.IsNode() && c.tree.storage[c.node].parent == 0
}

// IsLeft reports whether the cursor is a left child or a left slot.
func (c Cursor[T]) IsLeft() bool {
	switch c.side {
	case Left:
		return true
	case Self:
		if !c.IsNode() {
			return false
		}

		parentIdx := c.tree.storage[c.node].parent

		return parentIdx != 0 && c.tree.storage[parentIdx].left == c.node
	default:
		return false
	}
}

// IsRight reports whether the cursor is a right child or a right slot.
func (c Cursor[T]) IsRight() bool {
	switch c.side {
	case Right:
		return true
	case Self:
		if !c.IsNode() {
			return false
		}

		parentIdx := c.tree.storage[c.node].parent

		return parentIdx != 0 && c.tree.storage[parentIdx].right == c.node
	default:
		return false
	}
}

// Sibling returns the other child of the parent.
//
// REQUIRES: the parent is an existing node.
func (c Cursor[T]) Sibling() Cursor[T] {
	parent := c.Parent()
	doAssert(parent.IsNode(), "sibling requires a parent")

	if c.IsLeft() {
		return parent.Right()
	}

	return parent.Left()
}

// Uncle returns the sibling of the parent.
//
// REQUIRES: the grandparent is an existing node.
func (c Cursor[T]) Uncle() Cursor[T] {
	parent := c.Parent()
	doAssert(parent.IsNode() && parent.Parent().IsNode(), "uncle requires a grandparent")

	return parent.Sibling()
}

func (c Cursor[T]) String() string {
	switch {
	case c.IsNode():
		return fmt.Sprintf("node#%d", c.node)
	case c.side == Self:
		return "root-slot"
	default:
		return fmt.Sprintf("%s-of#%d", c.side, c.node)
	}
}
