package rbtree

import "github.com/Sumatoshi-tech/redblack/pkg/bintree"

// searcher is the ordered layer between the red-black engine and the node
// store: it knows how to compare values but nothing about colors.
type searcher[T any] struct {
	nodes   *bintree.Tree[entry[T]]
	compare func(a, b T) int
}

// find descends from the root and returns the node equal to key or the empty
// slot where key belongs.
func (s *searcher[T]) find(key T) nodeCursor[T] {
	c := s.nodes.Root()

	for c.IsNode() {
		order := s.compare(key, c.Value().value)

		switch {
		case order == 0:
			return c
		case order < 0:
			c = c.Left()
		default:
			c = c.Right()
		}
	}

	return c
}

func (s *searcher[T]) newNode(slot nodeCursor[T]) nodeCursor[T] {
	return s.nodes.CreateNode(slot)
}

func (s *searcher[T]) rotateLeft(pivot nodeCursor[T]) nodeCursor[T] {
	return s.nodes.RotateLeft(pivot)
}

func (s *searcher[T]) rotateRight(pivot nodeCursor[T]) nodeCursor[T] {
	return s.nodes.RotateRight(pivot)
}
