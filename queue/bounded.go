package queue

import (
	"sync"
	"sync/atomic"
)

// BOUNDED_DEFAULT_CAPACITY is the capacity used when none is requested.
const BOUNDED_DEFAULT_CAPACITY = 64

// Bounded is a capacity-bounded queue shared between goroutines.
//
// A Bounded starts with one registered sender. Once every sender has called
// Hangup, consumers drain what is buffered and then see ErrQueueDisconnected.
// A consumer that stops reading calls Abandon, after which producers see
// ErrQueueDisconnected instead of blocking.
type Bounded struct {
	data      chan int64
	abandoned chan struct{}

	senders   atomic.Int32
	closeOnce sync.Once
	leaveOnce sync.Once
}

var _ Queue = (*Bounded)(nil)

// NewBounded creates a queue holding at most capacity values.
func NewBounded(capacity int) (bq *Bounded) {
	if capacity <= 0 {
		capacity = BOUNDED_DEFAULT_CAPACITY
	}

	bq = &Bounded{
		data:      make(chan int64, capacity),
		abandoned: make(chan struct{}),
	}
	bq.senders.Store(1)

	return
}

// AddSender registers an additional producer.
func (bq *Bounded) AddSender() {
	bq.senders.Add(1)
}

// Hangup drops one producer. When the last producer hangs up, blocked and
// future consumers are released once the buffer is empty.
func (bq *Bounded) Hangup() {
	if bq.senders.Add(-1) == 0 {
		bq.closeOnce.Do(func() { close(bq.data) })
	}
}

// Abandon marks the consumer as gone. Blocked and future producers fail
// with ErrQueueDisconnected.
func (bq *Bounded) Abandon() {
	bq.leaveOnce.Do(func() { close(bq.abandoned) })
}

// Enqueue appends a value, blocking while the queue is full.
func (bq *Bounded) Enqueue(value int64) (err error) {
	if bq.senders.Load() <= 0 {
		err = ErrQueueDisconnected
		return
	}

	select {
	case <-bq.abandoned:
		err = ErrQueueDisconnected
		return
	default:
	}

	select {
	case bq.data <- value:
	case <-bq.abandoned:
		err = ErrQueueDisconnected
	}

	return
}

// Dequeue removes the oldest value, blocking while the queue is empty.
func (bq *Bounded) Dequeue() (value int64, err error) {
	value, ok := <-bq.data
	if !ok {
		err = ErrQueueDisconnected
	}

	return
}

// TryDequeue removes the oldest value without blocking. It returns
// ErrQueueEmpty when nothing is buffered.
func (bq *Bounded) TryDequeue() (value int64, err error) {
	select {
	case v, ok := <-bq.data:
		if !ok {
			err = ErrQueueDisconnected
			return
		}
		value = v
	default:
		err = ErrQueueEmpty
	}

	return
}

// Len returns the number of buffered values.
func (bq *Bounded) Len() int {
	return len(bq.data)
}

// Cap returns the queue capacity.
func (bq *Bounded) Cap() int {
	return cap(bq.data)
}

// Clear removes all buffered values.
func (bq *Bounded) Clear() {
	bq.Drain()
}

// Drain removes and returns all buffered values without blocking.
func (bq *Bounded) Drain() (values []int64) {
	for {
		value, err := bq.TryDequeue()
		if err != nil {
			return
		}
		values = append(values, value)
	}
}
