// Package queue provides the FIFO endpoints that connect an Intcode machine
// to its callers.
//
// Two flavors share the Queue contract. Fifo is owned by a single caller and
// never blocks: an empty Fifo reports ErrQueueEmpty. Bounded is shared between
// goroutines, blocks producers when full and consumers when empty, and reports
// ErrQueueDisconnected once its peer has gone away.
package queue

// Queue is a first-in first-out sequence of machine values.
type Queue interface {
	// Enqueue appends a value.
	Enqueue(value int64) error
	// Dequeue removes and returns the oldest value.
	Dequeue() (value int64, err error)
	// Len returns the number of buffered values.
	Len() int
	// Clear removes all buffered values.
	Clear()
}

// Cloner is implemented by queues that are privately owned, and so are
// duplicated along with the machine that owns them.
type Cloner interface {
	Clone() Queue
}
