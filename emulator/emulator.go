// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"io"
	"log"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/queue"
)

// Seed is the pair of values written to cells 1 and 2 before execution.
type Seed struct {
	Noun int64
	Verb int64
}

// Emulator state. CPU + privately owned I/O queues.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  cpu.Program  // Program loaded on Reset.
	Listing  *cpu.Listing // Source listing, if the program was assembled.
}

// NewEmulator creates a new emulator loaded with the program.
func NewEmulator(prog cpu.Program) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(prog, &queue.Fifo{}, &queue.Fifo{}),
		Program: prog,
	}

	return
}

// NewEmulatorListing creates a new emulator for an assembled program.
func NewEmulatorListing(lst *cpu.Listing) (emu *Emulator) {
	emu = NewEmulator(lst.Program())
	emu.Listing = lst

	return
}

// Input returns the emulator's input queue.
func (emu *Emulator) Input() *queue.Fifo {
	return emu.Cpu.Input.(*queue.Fifo)
}

// Output returns the emulator's output queue.
func (emu *Emulator) Output() *queue.Fifo {
	return emu.Cpu.Output.(*queue.Fifo)
}

// Reset reloads the program and empties both queues.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(emu.Program)
	emu.Cpu.Input.Clear()
	emu.Cpu.Output.Clear()
}

// LineNo returns the source line number of the current instruction, or 0
// when the program was not assembled.
func (emu *Emulator) LineNo() int {
	if emu.Listing == nil {
		return 0
	}

	return emu.Listing.LineNo(emu.Cpu.Ip)
}

// runtime wraps a machine fault with its location.
func (emu *Emulator) runtime(err error) error {
	if err == nil {
		return nil
	}

	ip := emu.Cpu.Ip
	var fault *cpu.ErrFault
	if errors.As(err, &fault) {
		ip = fault.Ip
	}

	lineno := 0
	if emu.Listing != nil {
		lineno = emu.Listing.LineNo(ip)
	}

	return &ErrRuntime{Ip: ip, LineNo: lineno, Err: err}
}

// Step runs the machine up to and including the next I/O event.
func (emu *Emulator) Step() (state cpu.State, err error) {
	emu.Cpu.Verbose = emu.Verbose

	state, err = emu.Cpu.Step()
	err = emu.runtime(err)

	return
}

// Run runs the machine until it halts or starves for input.
func (emu *Emulator) Run() (state cpu.State, err error) {
	emu.Cpu.Verbose = emu.Verbose

	state, err = emu.Cpu.Run()
	err = emu.runtime(err)

	return
}

// Clone returns an independent copy of the emulator, queues included.
func (emu *Emulator) Clone() (clone *Emulator) {
	clone = &Emulator{
		Verbose: emu.Verbose,
		Cpu:     emu.Cpu.Clone(),
		Program: emu.Program,
		Listing: emu.Listing,
	}

	return
}

// Execute resets the machine, optionally seeds cells 1 and 2, and runs it
// to completion. It returns the value left in cell 0.
func (emu *Emulator) Execute(seed *Seed) (value int64, err error) {
	emu.Reset()

	if seed != nil {
		err = emu.Cpu.Seed(seed.Noun, seed.Verb)
		if err != nil {
			err = emu.runtime(err)
			return
		}
	}

	state, err := emu.Run()
	if err != nil {
		return
	}

	if state != cpu.STATE_HALTED {
		err = ErrStarved
		return
	}

	return emu.Cpu.Memory.Load(0)
}

// Diagnose resets the machine, feeds it the inputs, runs it to completion
// and returns the last value it produced.
func (emu *Emulator) Diagnose(inputs ...int64) (value int64, err error) {
	emu.Reset()

	for _, input := range inputs {
		emu.Input().Enqueue(input)
	}

	state, err := emu.Run()
	if err != nil {
		return
	}

	if state != cpu.STATE_HALTED {
		err = ErrStarved
		return
	}

	if emu.Verbose {
		log.Printf("emulator: outputs %v", emu.Output())
	}

	value, ok := emu.Output().Last()
	if !ok {
		err = ErrNoOutput
		return
	}

	return
}

// Save writes a snapshot of the machine and its queues.
func (emu *Emulator) Save(w io.Writer) (err error) {
	data, err := cpu.MarshalSnapshot(emu.Cpu.Snapshot())
	if err != nil {
		return
	}

	_, err = w.Write(data)
	return
}

// Restore replaces the machine and its queues with a saved snapshot.
func (emu *Emulator) Restore(r io.Reader) (err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	snap, err := cpu.UnmarshalSnapshot(data)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: restored ip %d, %d cells", snap.Ip, len(snap.Memory))
	}

	emu.Cpu = snap.Restore()
	emu.Cpu.Verbose = emu.Verbose

	return
}
