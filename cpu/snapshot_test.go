package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/queue"
)

func TestSnapshot(t *testing.T) {
	assert := assert.New(t)

	// Echo every input, doubled, until halted by a zero.
	prog := mustParse(t, "3,20,1006,20,14,1002,20,2,21,4,21,1105,1,0,99")

	cpu := NewCpu(prog, queue.NewFifo(5, 6), nil)
	state, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(STATE_HAS_OUTPUT, state)

	data, err := MarshalSnapshot(cpu.Snapshot())
	assert.NoError(err)

	again, err := MarshalSnapshot(cpu.Snapshot())
	assert.NoError(err)
	assert.Equal(data, again)

	snap, err := UnmarshalSnapshot(data)
	assert.NoError(err)
	assert.Equal([]int64{6}, snap.Input)
	assert.Equal([]int64{10}, snap.Output)

	restored := snap.Restore()
	assert.Equal(cpu.Memory, restored.Memory)
	assert.Equal(cpu.Ip, restored.Ip)
	assert.Equal(cpu.Ticks, restored.Ticks)

	// The original queues were not drained by the snapshot.
	assert.Equal(1, cpu.Input.Len())
	assert.Equal(1, cpu.Output.Len())

	for _, machine := range []*Cpu{cpu, restored} {
		machine.Input.Enqueue(0)
		state, err = machine.Run()
		assert.NoError(err)
		assert.Equal(STATE_HALTED, state)
		assert.Equal("10,12", machine.Output.(*queue.Fifo).String())
	}

	assert.Equal(cpu.Memory, restored.Memory)
}

func TestSnapshotInvalid(t *testing.T) {
	assert := assert.New(t)

	_, err := UnmarshalSnapshot([]byte{0xff, 0x00})
	assert.ErrorIs(err, ErrSnapshotInvalid)

	data, err := MarshalSnapshot(&Snapshot{Memory: []int64{99}, Ip: -1})
	assert.NoError(err)
	_, err = UnmarshalSnapshot(data)
	assert.ErrorIs(err, ErrSnapshotInvalid)
}
