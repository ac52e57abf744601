package rbtree

// Cursor is a read-mostly view of a tree position: either a stored value or an
// empty slot. A cursor to a stored value keeps referencing that value across
// inserts, but its parent, children and color may change, and the pointer
// returned by Value is only valid until the next Insert.
type Cursor[T any] struct {
	c nodeCursor[T]
}

// IsNode reports whether the cursor references a stored value.
func (c Cursor[T]) IsNode() bool {
	return c.c.IsNode()
}

// Value returns the stored value. Mutating it must not change its ordering.
//
// REQUIRES: c.IsNode().
func (c Cursor[T]) Value() *T {
	return &c.c.Value().value
}

// Color returns the node color. Empty slots are Black.
func (c Cursor[T]) Color() Color {
	return colorOf(c.c)
}

// Left returns the left child or the empty slot on that side.
//
// REQUIRES: c.IsNode().
func (c Cursor[T]) Left() Cursor[T] {
	return Cursor[T]{c: c.c.Left()}
}

// Right returns the right child or the empty slot on that side.
//
// REQUIRES: c.IsNode().
func (c Cursor[T]) Right() Cursor[T] {
	return Cursor[T]{c: c.c.Right()}
}

// Parent returns the parent node, or the root slot for the root and for empty
// slots.
func (c Cursor[T]) Parent() Cursor[T] {
	return Cursor[T]{c: c.c.Parent()}
}

// Equal checks for the same position.
func (c Cursor[T]) Equal(other Cursor[T]) bool {
	return c.c.Equal(other.c)
}
