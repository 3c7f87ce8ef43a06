package cpu

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/intcode/queue"
)

// Snapshot is the serializable state of a machine, including the contents
// of privately owned Fifo queues.
type Snapshot struct {
	Memory       []int64 `cbor:"1,keyasint"`
	Ip           int64   `cbor:"2,keyasint"`
	RelativeBase int64   `cbor:"3,keyasint"`
	Halted       bool    `cbor:"4,keyasint,omitempty"`
	Ticks        int     `cbor:"5,keyasint,omitempty"`
	Input        []int64 `cbor:"6,keyasint,omitempty"`
	Output       []int64 `cbor:"7,keyasint,omitempty"`
}

var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to create CBOR enc mode: %v", err))
	}
	snapshotEncMode = em
}

// Snapshot captures the machine state. Queues other than *queue.Fifo are
// shared resources and are not captured.
func (cpu *Cpu) Snapshot() (snap *Snapshot) {
	snap = &Snapshot{
		Memory:       slices.Clone(cpu.Memory),
		Ip:           cpu.Ip,
		RelativeBase: cpu.RelativeBase,
		Halted:       cpu.Halted,
		Ticks:        cpu.Ticks,
	}

	if fifo, ok := cpu.Input.(*queue.Fifo); ok {
		snap.Input = fifo.Clone().(*queue.Fifo).Drain()
	}
	if fifo, ok := cpu.Output.(*queue.Fifo); ok {
		snap.Output = fifo.Clone().(*queue.Fifo).Drain()
	}

	return
}

// Restore builds an independent machine from the snapshot, with Fifo queues
// holding the captured queue contents.
func (snap *Snapshot) Restore() (cpu *Cpu) {
	cpu = &Cpu{
		Memory:       slices.Clone(Memory(snap.Memory)),
		Ip:           snap.Ip,
		RelativeBase: snap.RelativeBase,
		Halted:       snap.Halted,
		Ticks:        snap.Ticks,
		Input:        queue.NewFifo(snap.Input...),
		Output:       queue.NewFifo(snap.Output...),
	}

	return
}

// MarshalSnapshot serializes a Snapshot to CBOR bytes.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	return snapshotEncMode.Marshal(snap)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, errors.Join(ErrSnapshotInvalid, err)
	}
	if snap.Ip < 0 || len(snap.Memory) > MEMORY_LIMIT {
		return nil, ErrSnapshotInvalid
	}
	return &snap, nil
}
