// Package sorting provides in-place heap sort and quick sort that can report
// every intermediate state of the slice.
package sorting

import (
	"cmp"
	"errors"
	"fmt"
)

// Algorithm names accepted by ByName.
const (
	AlgorithmHeap  = "heap"
	AlgorithmQuick = "quick"
)

// ErrUnknownAlgorithm is returned by ByName for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown sort algorithm")

// Phase identifies what a Step did.
type Phase int

const (
	// PhaseHeapify sifted down one subtree while building the heap.
	PhaseHeapify Phase = iota
	// PhaseExtract moved the heap maximum to the end of the unsorted prefix.
	PhaseExtract
	// PhasePartition placed one pivot at its final position.
	PhasePartition
)

func (phase Phase) String() string {
	switch phase {
	case PhaseHeapify:
		return "heapify"
	case PhaseExtract:
		return "extract"
	case PhasePartition:
		return "partition"
	default:
		return "unknown"
	}
}

// Step describes one traced step.
type Step struct {
	Phase Phase
	// Index is the sifted subtree root, the extracted position or the pivot position.
	Index int
	// Lo and Up bound the partitioned range [Lo, Up). Only set for PhasePartition.
	Lo, Up int
}

// Func is the signature shared by HeapSort and QuickSort.
type Func[T cmp.Ordered] func(a []T, opts ...Option[T])

// Option configures a sort call.
type Option[T cmp.Ordered] func(s *settings[T])

type settings[T cmp.Ordered] struct {
	trace func(step Step, a []T)
}

// WithTrace calls fn after every step with the whole slice.
// The slice must not be modified or retained by fn.
func WithTrace[T cmp.Ordered](fn func(step Step, a []T)) Option[T] {
	return func(s *settings[T]) {
		s.trace = fn
	}
}

func newSettings[T cmp.Ordered](opts []Option[T]) settings[T] {
	s := settings[T]{trace: func(Step, []T) {}}
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// Names lists the supported algorithm names.
func Names() []string {
	return []string{AlgorithmHeap, AlgorithmQuick}
}

// ByName returns the sort routine with the given name.
func ByName[T cmp.Ordered](name string) (Func[T], error) {
	switch name {
	case AlgorithmHeap:
		return HeapSort[T], nil
	case AlgorithmQuick:
		return QuickSort[T], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
