package sorting

import "cmp"

// QuickSort sorts a in ascending order using Lomuto partitioning with the last
// element of each range as pivot.
func QuickSort[T cmp.Ordered](a []T, opts ...Option[T]) {
	s := newSettings(opts)
	quickSort(a, 0, len(a), &s)
}

// quickSort sorts a[lo:up]. The placed pivot is excluded from both halves.
func quickSort[T cmp.Ordered](a []T, lo, up int, s *settings[T]) {
	for up-lo >= 2 {
		p := partition(a, lo, up)
		s.trace(Step{Phase: PhasePartition, Index: p, Lo: lo, Up: up}, a)

		// Recurse into the smaller half, loop over the larger one.
		if p-lo < up-p-1 {
			quickSort(a, lo, p, s)
			lo = p + 1
		} else {
			quickSort(a, p+1, up, s)
			up = p
		}
	}
}

// partition moves every element <= a[up-1] before it and returns its position.
func partition[T cmp.Ordered](a []T, lo, up int) int {
	pivot := a[up-1]
	i := lo

	for j := lo; j < up-1; j++ {
		if a[j] <= pivot {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}

	a[i], a[up-1] = a[up-1], a[i]

	return i
}
