package pipeline

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrNoSignal = errors.New(f("pipeline produced no signal"))
	ErrNoStages = errors.New(f("pipeline has no stages"))
)

// ErrStage is a fatal error raised by one stage of the pipeline.
type ErrStage struct {
	Stage int
	Phase int64
	Err   error
}

func (err *ErrStage) Error() string {
	return f("stage %d (phase %d): %v", err.Stage, err.Phase, err.Err)
}

func (err *ErrStage) Unwrap() error {
	return err.Err
}
