package internal

import (
	"iter"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeqConcat(t *testing.T) {
	assert := assert.New(t)

	pulled := 0
	lazy := func(yield func(int64) bool) {
		for n := range int64(3) {
			pulled++
			if !yield(100 + n) {
				return
			}
		}
	}

	seq := IterSeqConcat(slices.Values([]int64{1, 2}), iter.Seq[int64](lazy))

	next, stop := iter.Pull(seq)
	defer stop()

	for _, expected := range []int64{1, 2, 100} {
		value, ok := next()
		assert.True(ok)
		assert.Equal(expected, value)
	}
	assert.Equal(1, pulled)

	assert.Equal([]int64{1, 2, 100, 101, 102}, slices.Collect(seq))
	assert.Equal(0, len(slices.Collect(IterSeqConcat[int64]())))
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	merged := maps.Collect(IterSeq2Concat(
		maps.All(map[string]string{"A": "1", "B": "2"}),
		maps.All(map[string]string{"B": "3"}),
	))

	assert.Equal(map[string]string{"A": "1", "B": "3"}, merged)
}
