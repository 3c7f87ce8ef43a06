package queue

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Fifo is an unbounded, non-blocking queue owned by a single caller.
// The zero value is an empty queue ready for use.
type Fifo struct {
	ReadIndex int
	Data      []int64
}

var _ Queue = (*Fifo)(nil)
var _ Cloner = (*Fifo)(nil)

// NewFifo returns a Fifo pre-loaded with values.
func NewFifo(values ...int64) (fifo *Fifo) {
	fifo = &Fifo{}
	for _, value := range values {
		fifo.Enqueue(value)
	}

	return
}

// Enqueue appends a value, growing the buffer as needed. It never fails.
func (fifo *Fifo) Enqueue(value int64) (err error) {
	fifo.compact()
	fifo.Data = append(fifo.Data, value)

	return
}

// Dequeue removes the oldest value, or returns ErrQueueEmpty.
func (fifo *Fifo) Dequeue() (value int64, err error) {
	value, ok := fifo.Peek()
	if !ok {
		err = ErrQueueEmpty
		return
	}

	fifo.ReadIndex++
	if fifo.ReadIndex == len(fifo.Data) {
		fifo.ReadIndex = 0
		fifo.Data = fifo.Data[:0]
	}

	return
}

// Peek returns the oldest value without removing it.
func (fifo *Fifo) Peek() (value int64, ok bool) {
	if fifo.Len() == 0 {
		return
	}

	return fifo.Data[fifo.ReadIndex], true
}

// Last returns the most recently enqueued value still buffered.
func (fifo *Fifo) Last() (value int64, ok bool) {
	if fifo.Len() == 0 {
		return
	}

	return fifo.Data[len(fifo.Data)-1], true
}

// Len returns the number of buffered values.
func (fifo *Fifo) Len() int {
	return len(fifo.Data) - fifo.ReadIndex
}

// Clear removes all buffered values.
func (fifo *Fifo) Clear() {
	fifo.ReadIndex = 0
	fifo.Data = fifo.Data[:0]
}

// Values returns an iterator that dequeues values until the queue is empty.
func (fifo *Fifo) Values() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for fifo.Len() > 0 {
			value, _ := fifo.Dequeue()
			if !yield(value) {
				return
			}
		}
	}
}

// Drain removes and returns all buffered values.
func (fifo *Fifo) Drain() (values []int64) {
	return slices.Collect(fifo.Values())
}

// Clone returns an independent copy of the queue.
func (fifo *Fifo) Clone() Queue {
	return &Fifo{
		Data: slices.Clone(fifo.Data[fifo.ReadIndex:]),
	}
}

// String returns the buffered values, comma separated, without removing them.
func (fifo *Fifo) String() string {
	words := make([]string, 0, fifo.Len())
	for _, value := range fifo.Data[fifo.ReadIndex:] {
		words = append(words, fmt.Sprintf("%d", value))
	}

	return strings.Join(words, ",")
}

// compact reclaims consumed space once more than half the buffer is stale.
func (fifo *Fifo) compact() {
	if fifo.ReadIndex == 0 || fifo.ReadIndex < len(fifo.Data)/2 {
		return
	}

	n := copy(fifo.Data, fifo.Data[fifo.ReadIndex:])
	fifo.Data = fifo.Data[:n]
	fifo.ReadIndex = 0
}
