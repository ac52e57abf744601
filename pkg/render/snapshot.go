// Package render draws red-black trees level by level.
//
// A Snapshot is taken with Capture and can then be written as a text table,
// JSON, YAML or an HTML tree chart. Rendering only reads the tree through its
// public cursor.
package render

import "github.com/Sumatoshi-tech/redblack/pkg/rbtree"

// Node is a stored value with its color.
type Node[T any] struct {
	Value T      `json:"value" yaml:"value"`
	Color string `json:"color" yaml:"color"`
}

// Snapshot is a breadth-first picture of a tree. Level k+1 holds both child
// positions of every node of level k, in order. A nil entry is a gap: a child
// position with no node.
type Snapshot[T any] struct {
	Size   int          `json:"size"   yaml:"size"`
	Levels [][]*Node[T] `json:"levels" yaml:"levels"`
}

// Capture walks the tree breadth-first. The walk ends at the first level
// without nodes, so the last level always holds at least one node.
func Capture[T any](tree *rbtree.Tree[T]) Snapshot[T] {
	snap := Snapshot[T]{Size: tree.Len(), Levels: [][]*Node[T]{}}
	current := []rbtree.Cursor[T]{tree.Root()}

	for {
		level := make([]*Node[T], 0, len(current))
		next := make([]rbtree.Cursor[T], 0, 2*len(current))
		hasNodes := false

		for _, c := range current {
			if !c.IsNode() {
				level = append(level, nil)

				continue
			}

			hasNodes = true

			level = append(level, &Node[T]{Value: *c.Value(), Color: c.Color().String()})
			next = append(next, c.Left(), c.Right())
		}

		if !hasNodes {
			return snap
		}

		snap.Levels = append(snap.Levels, level)
		current = next
	}
}

// Height returns the number of levels.
func (snap Snapshot[T]) Height() int {
	return len(snap.Levels)
}

// treeNode links a snapshot node to its children.
type treeNode[T any] struct {
	node        *Node[T]
	left, right *treeNode[T]
}

// link rebuilds the tree shape from the levels. It returns nil for an empty
// snapshot.
func (snap Snapshot[T]) link() *treeNode[T] {
	if len(snap.Levels) == 0 || len(snap.Levels[0]) == 0 || snap.Levels[0][0] == nil {
		return nil
	}

	root := &treeNode[T]{node: snap.Levels[0][0]}
	parents := []*treeNode[T]{root}

	for _, level := range snap.Levels[1:] {
		var next []*treeNode[T]

		for i, node := range level {
			if node == nil || i/2 >= len(parents) {
				continue
			}

			child := &treeNode[T]{node: node}
			if i%2 == 0 {
				parents[i/2].left = child
			} else {
				parents[i/2].right = child
			}

			next = append(next, child)
		}

		parents = next
	}

	return root
}
