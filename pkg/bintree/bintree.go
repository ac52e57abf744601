// Package bintree provides an arena-backed binary tree with cursor navigation.
//
// Nodes live in a single slice and reference each other by uint32 index. Every
// node is owned by exactly one child link of its parent, or by the tree itself
// for the root. Parent links are used for navigation only. Index 0 is reserved
// so that a zero link means "no node".
//
// A Cursor denotes either an existing node or an empty child slot where a node
// could be attached, which keeps navigation total: every call returns a cursor,
// never a nil.
package bintree

import "math"

// limitNode is the first index which can never be allocated.
const limitNode = math.MaxUint32

type node[T any] struct {
	value               T
	parent, left, right uint32
}

// Tree is a binary tree whose nodes are created by attaching them at empty
// slots and are never destroyed.
//
// The zero value is an empty tree ready to use.
type Tree[T any] struct {
	// Node storage. Element 0 is reserved.
	storage []node[T]

	// Root of the tree, 0 when empty.
	root uint32

	// Number of nodes under root, including the root.
	count int
}

// New creates an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{storage: make([]node[T], 1)}
}

// Len returns the number of nodes in the tree.
func (tree *Tree[T]) Len() int {
	return tree.count
}

// Root returns a cursor to the root node, or the virtual root slot if the tree
// is empty.
func (tree *Tree[T]) Root() Cursor[T] {
	return Cursor[T]{tree: tree, node: tree.root, side: Self}
}

// CreateNode allocates a zero-valued node, attaches it at the given virtual
// slot and returns a cursor to it. The virtual root slot attaches the node as
// the root of an empty tree.
//
// REQUIRES: !slot.IsNode() and the slot is still empty.
func (tree *Tree[T]) CreateNode(slot Cursor[T]) Cursor[T] {
	doAssert(slot.tree == tree, "cursor belongs to another tree")
	doAssert(!slot.IsNode(), "cannot create a node over an existing node")

	var nodeIdx uint32

	switch slot.side {
	case Self:
		doAssert(tree.root == 0, "root slot is occupied")

		nodeIdx = tree.malloc()
		tree.root = nodeIdx
	case Left:
		doAssert(tree.storage[slot.node].left == 0, "left slot is occupied")

		nodeIdx = tree.malloc()
		tree.storage[nodeIdx].parent = slot.node
		tree.storage[slot.node].left = nodeIdx
	case Right:
		doAssert(tree.storage[slot.node].right == 0, "right slot is occupied")

		nodeIdx = tree.malloc()
		tree.storage[nodeIdx].parent = slot.node
		tree.storage[slot.node].right = nodeIdx
	}

	tree.count++

	return Cursor[T]{tree: tree, node: nodeIdx, side: Self}
}

// RotateLeft promotes the right child of pivot into pivot's position and
// returns a cursor to the promoted node.
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// REQUIRES: pivot.IsNode() and pivot has a right child.
func (tree *Tree[T]) RotateLeft(pivot Cursor[T]) Cursor[T] {
	return tree.rotateDirection(pivot, true)
}

// RotateRight promotes the left child of pivot into pivot's position and
// returns a cursor to the promoted node.
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
// REQUIRES: pivot.IsNode() and pivot has a left child.
func (tree *Tree[T]) RotateRight(pivot Cursor[T]) Cursor[T] {
	return tree.rotateDirection(pivot, false)
}

// rotateDirection only relinks: values and node identities are untouched, so
// cursors taken before the rotation still reference the same nodes.
//
//nolint:dupword // ASCII art diagrams above contain intentional repeated letters.
func (tree *Tree[T]) rotateDirection(pivot Cursor[T], isLeft bool) Cursor[T] {
	doAssert(pivot.tree == tree, "cursor belongs to another tree")
	doAssert(pivot.IsNode(), "cannot rotate around an empty slot")

	alloc := tree.storage
	pivotIdx := pivot.node

	// Get the child in the opposite direction of rotation.
	var child uint32
	if isLeft {
		child = alloc[pivotIdx].right
	} else {
		child = alloc[pivotIdx].left
	}

	doAssert(child != 0, "rotation requires the promoted child to exist")

	// Move the inner subtree.
	var innerSubtree uint32
	if isLeft {
		innerSubtree = alloc[child].left
		alloc[pivotIdx].right = innerSubtree
	} else {
		innerSubtree = alloc[child].right
		alloc[pivotIdx].left = innerSubtree
	}

	if innerSubtree != 0 {
		alloc[innerSubtree].parent = pivotIdx
	}

	// Update parent links.
	parentIdx := alloc[pivotIdx].parent
	alloc[child].parent = parentIdx

	switch {
	case parentIdx == 0:
		tree.root = child
	case alloc[parentIdx].left == pivotIdx:
		alloc[parentIdx].left = child
	default:
		alloc[parentIdx].right = child
	}

	// Complete the rotation.
	if isLeft {
		alloc[child].left = pivotIdx
	} else {
		alloc[child].right = pivotIdx
	}

	alloc[pivotIdx].parent = child

	return Cursor[T]{tree: tree, node: child, side: Self}
}

func (tree *Tree[T]) malloc() uint32 {
	if len(tree.storage) == 0 {
		// Zero is reserved.
		tree.storage = append(tree.storage, node[T]{})
	}

	nodeLen := len(tree.storage)
	if uint64(nodeLen) >= limitNode {
		panic("bintree: the node arena has reached the maximum value for uint32")
	}

	tree.storage = append(tree.storage, node[T]{})

	return uint32(nodeLen) //nolint:gosec // bounded by limitNode above.
}

func doAssert(condition bool, message string) {
	if !condition {
		panic("bintree: " + message)
	}
}
