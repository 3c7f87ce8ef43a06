package pipeline

import (
	"iter"
	"slices"
)

// Permutations yields every ordering of values, using Heap's algorithm.
// Each yielded slice belongs to the consumer.
func Permutations(values []int64) iter.Seq[[]int64] {
	return func(yield func([]int64) bool) {
		perm := slices.Clone(values)
		count := make([]int, len(perm))

		if !yield(slices.Clone(perm)) {
			return
		}

		for n := 1; n < len(perm); {
			if count[n] < n {
				if n%2 == 0 {
					perm[0], perm[n] = perm[n], perm[0]
				} else {
					perm[count[n]], perm[n] = perm[n], perm[count[n]]
				}
				if !yield(slices.Clone(perm)) {
					return
				}
				count[n]++
				n = 1
			} else {
				count[n] = 0
				n++
			}
		}
	}
}
