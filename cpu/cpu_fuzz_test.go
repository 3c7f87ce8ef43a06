package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/queue"
)

func FuzzCpu(f *testing.F) {
	f.Add(int64(1), int64(0), int64(0), int64(0), int64(7))
	f.Add(int64(1101), int64(-1), int64(1), int64(3), int64(0))
	f.Add(int64(203), int64(-5), int64(99), int64(0), int64(1))
	f.Add(int64(1105), int64(1), int64(-1), int64(0), int64(0))
	f.Add(int64(109), int64(1<<40), int64(204), int64(-1), int64(2))
	f.Add(int64(-99), int64(0), int64(0), int64(0), int64(0))

	f.Fuzz(func(t *testing.T, w0, w1, w2, w3, input int64) {
		assert := assert.New(t)

		prog := Program{w0, w1, w2, w3, 99}
		cpu := NewCpu(prog, queue.NewFifo(input), nil)

		for range 64 {
			ip := cpu.Ip
			state, err := cpu.Tick()
			if err != nil {
				var fault *ErrFault
				assert.True(errors.As(err, &fault))
				assert.Equal(ip, fault.Ip)
				assert.Equal(ip, cpu.Ip)
				isKnown := errors.Is(err, ErrOpcode(0)) ||
					errors.Is(err, ErrMode{}) ||
					errors.Is(err, ErrAddress(0))
				assert.True(isKnown, err.Error())
				return
			}
			assert.True(state >= STATE_RUNNABLE && state <= STATE_HALTED)
			if state == STATE_HALTED || state == STATE_AWAITING_INPUT {
				assert.Equal(state == STATE_HALTED, cpu.Halted)
				return
			}
			assert.LessOrEqual(len(cpu.Memory), MEMORY_LIMIT)
		}
	})
}
