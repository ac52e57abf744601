package sorting

import "cmp"

// HeapSort sorts a in ascending order. It first builds a max-heap bottom-up and
// then repeatedly swaps the maximum to the end of the shrinking heap.
func HeapSort[T cmp.Ordered](a []T, opts ...Option[T]) {
	s := newSettings(opts)

	for i := len(a)/2 - 1; i >= 0; i-- {
		siftDown(a, len(a), i)
		s.trace(Step{Phase: PhaseHeapify, Index: i}, a)
	}

	for i := len(a) - 1; i >= 1; i-- {
		a[0], a[i] = a[i], a[0]
		siftDown(a, i, 0)
		s.trace(Step{Phase: PhaseExtract, Index: i}, a)
	}
}

// siftDown restores the heap property for the subtree at index within a[:limit].
func siftDown[T cmp.Ordered](a []T, limit, index int) {
	for {
		largest := index

		if left := 2*index + 1; left < limit && a[left] > a[largest] {
			largest = left
		}

		if right := 2*index + 2; right < limit && a[right] > a[largest] {
			largest = right
		}

		if largest == index {
			return
		}

		a[index], a[largest] = a[largest], a[index]
		index = largest
	}
}
