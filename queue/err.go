package queue

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Queue errors
	ErrQueueEmpty        = errors.New(f("queue empty"))
	ErrQueueDisconnected = errors.New(f("queue disconnected"))
)
