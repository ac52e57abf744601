// Package rbtree implements a red-black tree on top of the cursor-based binary
// tree from package bintree.
//
// Values are ordered by a three-way compare function. Inserting a value that
// compares equal to a stored one overwrites the stored value in place. There is
// no deletion.
//
// A Tree is not safe for concurrent use.
package rbtree

import (
	"cmp"

	"github.com/Sumatoshi-tech/redblack/pkg/bintree"
)

// Color of a node. Empty slots are Black.
type Color bool

const (
	// Red nodes never have a red child.
	Red Color = false
	// Black nodes are counted by the black-height.
	Black Color = true
)

func (color Color) String() string {
	if color == Red {
		return "red"
	}

	return "black"
}

// entry is what the red-black layer stores in every bintree node.
type entry[T any] struct {
	value T
	color Color
}

type nodeCursor[T any] = bintree.Cursor[entry[T]]

// Tree is a red-black tree of T values.
type Tree[T any] struct {
	search   searcher[T]
	observer Observer
}

// New creates an empty tree ordered by compare, which returns a negative
// number, zero or a positive number when a is less than, equal to or greater
// than b.
func New[T any](compare func(a, b T) int, opts ...Option) *Tree[T] {
	cfg := options{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Tree[T]{
		search: searcher[T]{
			nodes:   bintree.New[entry[T]](),
			compare: compare,
		},
		observer: cfg.observer,
	}
}

// NewOrdered creates an empty tree ordered by cmp.Compare.
func NewOrdered[T cmp.Ordered](opts ...Option) *Tree[T] {
	return New(cmp.Compare[T], opts...)
}

// Len returns the number of values in the tree.
func (tree *Tree[T]) Len() int {
	return tree.search.nodes.Len()
}

// Root returns a cursor to the root, or an empty slot if the tree is empty.
func (tree *Tree[T]) Root() Cursor[T] {
	return Cursor[T]{c: tree.search.nodes.Root()}
}

// Find returns a cursor to the value equal to key, or to the empty slot where
// key would be inserted.
func (tree *Tree[T]) Find(key T) Cursor[T] {
	return Cursor[T]{c: tree.search.find(key)}
}

// Get returns the stored value equal to key.
func (tree *Tree[T]) Get(key T) (T, bool) {
	c := tree.search.find(key)
	if !c.IsNode() {
		var zero T

		return zero, false
	}

	return c.Value().value, true
}

// Insert stores value. It returns true if a new node was created and false if
// an equal value was already present, in which case that value is overwritten
// and neither colors nor shape change.
func (tree *Tree[T]) Insert(value T) bool {
	c := tree.search.find(value)
	if c.IsNode() {
		c.Value().value = value
		tree.observer.ObserveInsert(Updated)

		return false
	}

	c = tree.search.newNode(c)
	*c.Value() = entry[T]{value: value, color: Red}

	tree.fixup(c)
	tree.observer.ObserveInsert(Inserted)

	return true
}

// fixup restores the red-black invariants after c was attached as a red leaf.
// Each iteration either terminates or moves c two levels up, so the loop is
// bounded by the tree height.
func (tree *Tree[T]) fixup(c nodeCursor[T]) {
	for {
		// Case 1: c is at the root.
		if c.IsRoot() {
			setColor(c, Black)
			tree.observer.ObserveFixup(CaseRoot)

			return
		}

		parent := c.Parent()

		// Case 2: the parent is black, so no red-red edge exists.
		if colorOf(parent) == Black {
			tree.observer.ObserveFixup(CaseParentBlack)

			return
		}

		// The parent is red, hence not the root: the grandparent exists.
		grandparent := parent.Parent()
		uncle := c.Uncle()

		// Case 3: parent and uncle are both red.
		if colorOf(uncle) == Red {
			setColor(parent, Black)
			setColor(uncle, Black)
			setColor(grandparent, Red)
			tree.observer.ObserveFixup(CaseRedUncle)

			c = grandparent

			continue
		}

		// Case 4: c is an inner grandchild. Rotate it to the outside and
		// continue with the former parent, which is now the outer grandchild.
		if c.IsRight() && parent.IsLeft() {
			tree.observer.ObserveFixup(CaseZigZag)

			c = tree.search.rotateLeft(parent).Left()

			continue
		}

		if c.IsLeft() && parent.IsRight() {
			tree.observer.ObserveFixup(CaseZigZag)

			c = tree.search.rotateRight(parent).Right()

			continue
		}

		// Case 5: c is an outer grandchild.
		setColor(parent, Black)
		setColor(grandparent, Red)

		if c.IsLeft() {
			tree.search.rotateRight(grandparent)
		} else {
			tree.search.rotateLeft(grandparent)
		}

		tree.observer.ObserveFixup(CaseLine)

		return
	}
}

func colorOf[T any](c nodeCursor[T]) Color {
	if !c.IsNode() {
		return Black
	}

	return c.Value().color
}

func setColor[T any](c nodeCursor[T], color Color) {
	c.Value().color = color
}
