package rbtree

import (
	"errors"
	"fmt"
)

// Invariant violations reported by Validate.
var (
	ErrOutOfOrder          = errors.New("values out of order")
	ErrRedRoot             = errors.New("root is red")
	ErrDoubleRed           = errors.New("red node has a red child")
	ErrBlackHeightMismatch = errors.New("black height mismatch")
	ErrSizeMismatch        = errors.New("size mismatch")
	ErrBrokenParentLink    = errors.New("child does not link back to its parent")
)

// Stats describes the shape of a valid tree.
type Stats struct {
	// Nodes is the number of stored values.
	Nodes int
	// Height is the number of nodes on the longest root-to-leaf path.
	Height int
	// BlackHeight is the number of black nodes on every root-to-leaf path.
	BlackHeight int
}

// Validate walks the whole tree and checks the red-black invariants, ordering,
// size and parent links. It returns the first violation found.
func (tree *Tree[T]) Validate() (Stats, error) {
	return tree.validate(tree.Len())
}

// validate checks the tree against an expected node count.
func (tree *Tree[T]) validate(size int) (Stats, error) {
	root := tree.search.nodes.Root()

	if colorOf(root) == Red {
		return Stats{}, ErrRedRoot
	}

	if root.IsNode() && root.Parent().IsNode() {
		return Stats{}, fmt.Errorf("%w: root %v has a parent", ErrBrokenParentLink, root.Value().value)
	}

	walker := validator[T]{compare: tree.search.compare}

	blackHeight, height, err := walker.walk(root, nil, nil)
	if err != nil {
		return Stats{}, err
	}

	if walker.nodes != size {
		return Stats{}, fmt.Errorf("%w: walked %d nodes, expected %d", ErrSizeMismatch, walker.nodes, size)
	}

	return Stats{
		Nodes:  walker.nodes,
		Height: height,
		// The empty slots at the bottom are black but are not nodes.
		BlackHeight: blackHeight - 1,
	}, nil
}

type validator[T any] struct {
	compare func(a, b T) int
	nodes   int
}

// walk returns the black height of c counting the empty slots, and its height.
// lower and upper are exclusive bounds inherited from the ancestors.
func (v *validator[T]) walk(c nodeCursor[T], lower, upper *T) (blackHeight, height int, err error) {
	if !c.IsNode() {
		return 1, 0, nil
	}

	v.nodes++

	node := c.Value()
	value := node.value

	if lower != nil && v.compare(*lower, value) >= 0 {
		return 0, 0, fmt.Errorf("%w: %v is not greater than %v", ErrOutOfOrder, value, *lower)
	}

	if upper != nil && v.compare(value, *upper) >= 0 {
		return 0, 0, fmt.Errorf("%w: %v is not less than %v", ErrOutOfOrder, value, *upper)
	}

	left, right := c.Left(), c.Right()

	for _, child := range [...]nodeCursor[T]{left, right} {
		if !child.IsNode() {
			continue
		}

		if !child.Parent().Equal(c) {
			return 0, 0, fmt.Errorf("%w: child of %v", ErrBrokenParentLink, value)
		}

		if node.color == Red && colorOf(child) == Red {
			return 0, 0, fmt.Errorf("%w: %v and %v", ErrDoubleRed, value, child.Value().value)
		}
	}

	leftBlack, leftHeight, err := v.walk(left, lower, &value)
	if err != nil {
		return 0, 0, err
	}

	rightBlack, rightHeight, err := v.walk(right, &value, upper)
	if err != nil {
		return 0, 0, err
	}

	if leftBlack != rightBlack {
		return 0, 0, fmt.Errorf("%w: under %v left has %d, right has %d",
			ErrBlackHeightMismatch, value, leftBlack, rightBlack)
	}

	blackHeight = leftBlack
	if node.color == Black {
		blackHeight++
	}

	return blackHeight, 1 + max(leftHeight, rightHeight), nil
}
