package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBounded_Capacity(t *testing.T) {
	assert := assert.New(t)

	bq := NewBounded(0)
	assert.Equal(BOUNDED_DEFAULT_CAPACITY, bq.Cap())

	bq = NewBounded(2)
	assert.Equal(2, bq.Cap())
	assert.NoError(bq.Enqueue(1))
	assert.NoError(bq.Enqueue(2))
	assert.Equal(2, bq.Len())

	// A third value blocks until the consumer makes room.
	sent := make(chan error)
	go func() {
		sent <- bq.Enqueue(3)
	}()

	select {
	case <-sent:
		t.Fatal("enqueue on a full queue did not block")
	case <-time.After(20 * time.Millisecond):
	}

	value, err := bq.Dequeue()
	assert.NoError(err)
	assert.Equal(int64(1), value)
	assert.NoError(<-sent)

	assert.Equal([]int64{2, 3}, bq.Drain())
}

func TestBounded_Hangup(t *testing.T) {
	assert := assert.New(t)

	bq := NewBounded(4)
	bq.Enqueue(10)
	bq.Enqueue(20)
	bq.Hangup()

	value, err := bq.Dequeue()
	assert.NoError(err)
	assert.Equal(int64(10), value)

	value, err = bq.Dequeue()
	assert.NoError(err)
	assert.Equal(int64(20), value)

	_, err = bq.Dequeue()
	assert.Equal(ErrQueueDisconnected, err)

	_, err = bq.TryDequeue()
	assert.Equal(ErrQueueDisconnected, err)

	err = bq.Enqueue(30)
	assert.Equal(ErrQueueDisconnected, err)
}

func TestBounded_HangupWakesConsumer(t *testing.T) {
	assert := assert.New(t)

	bq := NewBounded(1)

	done := make(chan error)
	go func() {
		_, err := bq.Dequeue()
		done <- err
	}()

	bq.Hangup()
	assert.Equal(ErrQueueDisconnected, <-done)
}

func TestBounded_AddSender(t *testing.T) {
	assert := assert.New(t)

	bq := NewBounded(8)
	bq.AddSender()

	bq.Hangup()
	assert.NoError(bq.Enqueue(5))

	bq.Hangup()
	value, err := bq.Dequeue()
	assert.NoError(err)
	assert.Equal(int64(5), value)

	_, err = bq.Dequeue()
	assert.Equal(ErrQueueDisconnected, err)
}

func TestBounded_Abandon(t *testing.T) {
	assert := assert.New(t)

	bq := NewBounded(1)
	assert.NoError(bq.Enqueue(1))

	done := make(chan error)
	go func() {
		done <- bq.Enqueue(2)
	}()

	bq.Abandon()
	assert.Equal(ErrQueueDisconnected, <-done)
	assert.Equal(ErrQueueDisconnected, bq.Enqueue(3))

	// Abandon is idempotent.
	bq.Abandon()
}

func TestBounded_TryDequeue(t *testing.T) {
	assert := assert.New(t)

	bq := NewBounded(2)
	_, err := bq.TryDequeue()
	assert.Equal(ErrQueueEmpty, err)

	bq.Enqueue(-7)
	value, err := bq.TryDequeue()
	assert.NoError(err)
	assert.Equal(int64(-7), value)
}

func TestBounded_Clear(t *testing.T) {
	assert := assert.New(t)

	bq := NewBounded(4)
	bq.Enqueue(1)
	bq.Enqueue(2)
	bq.Clear()

	assert.Equal(0, bq.Len())
	_, err := bq.TryDequeue()
	assert.Equal(ErrQueueEmpty, err)
}

func TestBounded_Concurrent(t *testing.T) {
	assert := assert.New(t)

	const producers = 4
	const count = 1000

	bq := NewBounded(3)
	for range producers - 1 {
		bq.AddSender()
	}

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer bq.Hangup()
			for n := range count {
				bq.Enqueue(int64(p*count + n))
			}
		}()
	}

	seen := make(map[int64]bool, producers*count)
	for {
		value, err := bq.Dequeue()
		if err != nil {
			assert.Equal(ErrQueueDisconnected, err)
			break
		}
		assert.False(seen[value])
		seen[value] = true
	}
	wg.Wait()

	assert.Equal(producers*count, len(seen))
}
