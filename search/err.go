package search

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrNotFound   = errors.New(f("no noun and verb produce the target"))
	ErrNoResponse = errors.New(f("machine did not respond to a move"))
)

// ErrStatus is a move response that is not a known status.
type ErrStatus int64

func (err ErrStatus) Error() string {
	return f("status %d unknown", int64(err))
}
