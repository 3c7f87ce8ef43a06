package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/ezrec/intcode/queue"
)

// Cpu is the simulation context for a single Intcode machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory       Memory // Address space.
	Ip           int64  // Current instruction pointer.
	RelativeBase int64  // Offset for relative mode parameters.
	Halted       bool   // Set once a halt instruction has executed.

	Input  queue.Queue // Source for input instructions.
	Output queue.Queue // Destination for output instructions.

	Ticks int // Instructions executed.
}

// NewCpu creates a machine loaded with a copy of the program.
// Nil queues are replaced with empty Fifo queues.
func NewCpu(prog Program, input, output queue.Queue) (cpu *Cpu) {
	if input == nil {
		input = &queue.Fifo{}
	}
	if output == nil {
		output = &queue.Fifo{}
	}

	cpu = &Cpu{
		Input:  input,
		Output: output,
	}
	cpu.Reset(prog)

	return
}

// Reset reloads memory from the program and clears the registers.
// Queues are left untouched; the caller owns their contents.
func (cpu *Cpu) Reset(prog Program) {
	if cpu.Verbose {
		log.Printf("cpu: reset, %d cells", len(prog))
	}

	cpu.Memory = prog.Memory()
	cpu.Ip = 0
	cpu.RelativeBase = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// Seed sets cells 1 and 2 before execution begins.
func (cpu *Cpu) Seed(noun, verb int64) (err error) {
	err = cpu.Memory.Store(1, noun)
	if err != nil {
		return
	}

	err = cpu.Memory.Store(2, verb)
	return
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %d\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 5s: %d\n", "rb", cpu.RelativeBase)
	text += fmt.Sprintf("% 5s: %d\n", "mem", len(cpu.Memory))
	text += fmt.Sprintf("% 5s: %v\n", "halt", cpu.Halted)
	text += fmt.Sprintf("% 5s: %d\n", "ticks", cpu.Ticks)
	if word, err := cpu.Memory.Load(cpu.Ip); err == nil {
		inst, err := Code(word).Decode()
		if err == nil {
			text += fmt.Sprintf("% 5s: %v\n", "next", cpu.disassemble(inst))
		}
	}

	return
}

// Clone returns an independent copy of the machine. Queues that are
// privately owned (queue.Cloner) are copied; shared queues are not.
func (cpu *Cpu) Clone() (clone *Cpu) {
	clone = &Cpu{}
	*clone = *cpu
	clone.Memory = slices.Clone(cpu.Memory)
	clone.Input = cloneQueue(cpu.Input)
	clone.Output = cloneQueue(cpu.Output)

	return
}

func cloneQueue(q queue.Queue) queue.Queue {
	if cloner, ok := q.(queue.Cloner); ok {
		return cloner.Clone()
	}
	return q
}

// Tick executes a single instruction.
//
// An input instruction with nothing to read returns STATE_AWAITING_INPUT and
// leaves Ip on the instruction. An output instruction returns
// STATE_HAS_OUTPUT after the value has been enqueued. A halted machine
// returns STATE_HALTED without executing.
func (cpu *Cpu) Tick() (state State, err error) {
	if cpu.Halted {
		state = STATE_HALTED
		return
	}

	var code Code
	defer func() {
		if err != nil {
			err = &ErrFault{Ip: cpu.Ip, Code: code, Err: err}
		}
	}()

	word, err := cpu.Memory.Load(cpu.Ip)
	if err != nil {
		return
	}
	code = Code(word)

	inst, err := code.Decode()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %6d: %v", cpu.Ip, cpu.disassemble(inst))
	}

	next_ip := cpu.Ip + inst.Len()
	state = STATE_RUNNABLE

	switch inst.Opcode {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b int64
		a, err = cpu.value(inst, 0)
		if err != nil {
			return
		}
		b, err = cpu.value(inst, 1)
		if err != nil {
			return
		}
		var result int64
		switch inst.Opcode {
		case OP_ADD:
			result = a + b
		case OP_MUL:
			result = a * b
		case OP_LT:
			if a < b {
				result = 1
			}
		case OP_EQ:
			if a == b {
				result = 1
			}
		}
		err = cpu.store(inst, 2, result)
	case OP_IN:
		var dst int64
		dst, err = cpu.address(inst, 0)
		if err != nil {
			return
		}
		var value int64
		value, err = cpu.Input.Dequeue()
		if errors.Is(err, queue.ErrQueueEmpty) {
			// Retry this instruction once input arrives.
			err = nil
			state = STATE_AWAITING_INPUT
			return
		}
		if err != nil {
			err = errors.Join(ErrInput, err)
			return
		}
		err = cpu.Memory.Store(dst, value)
	case OP_OUT:
		var value int64
		value, err = cpu.value(inst, 0)
		if err != nil {
			return
		}
		err = cpu.Output.Enqueue(value)
		if err != nil {
			err = errors.Join(ErrOutput, err)
			return
		}
		state = STATE_HAS_OUTPUT
	case OP_JT, OP_JF:
		var test, target int64
		test, err = cpu.value(inst, 0)
		if err != nil {
			return
		}
		target, err = cpu.value(inst, 1)
		if err != nil {
			return
		}
		if (test != 0) == (inst.Opcode == OP_JT) {
			next_ip = target
		}
	case OP_ARB:
		var offset int64
		offset, err = cpu.value(inst, 0)
		if err != nil {
			return
		}
		cpu.RelativeBase += offset
	case OP_HLT:
		cpu.Halted = true
		next_ip = cpu.Ip
		state = STATE_HALTED
	default:
		err = ErrOpcode(code)
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// Step executes instructions up to and including the next I/O event.
// It returns STATE_HAS_OUTPUT, STATE_AWAITING_INPUT or STATE_HALTED.
func (cpu *Cpu) Step() (state State, err error) {
	for {
		state, err = cpu.Tick()
		if err != nil || state != STATE_RUNNABLE {
			return
		}
	}
}

// Run executes until the machine halts. If the input queue does not block
// and runs dry, Run returns STATE_AWAITING_INPUT so the caller can supply
// more input and call Run again.
func (cpu *Cpu) Run() (state State, err error) {
	for {
		state, err = cpu.Step()
		if err != nil {
			return
		}
		switch state {
		case STATE_HALTED, STATE_AWAITING_INPUT:
			return
		}
	}
}

// parameter returns the raw value of the n'th parameter.
func (cpu *Cpu) parameter(n int) (int64, error) {
	return cpu.Memory.Load(cpu.Ip + 1 + int64(n))
}

// address resolves the n'th parameter to a memory address.
func (cpu *Cpu) address(inst Instruction, n int) (addr int64, err error) {
	raw, err := cpu.parameter(n)
	if err != nil {
		return
	}

	switch inst.Modes[n] {
	case MODE_POSITION:
		addr = raw
	case MODE_RELATIVE:
		addr = cpu.RelativeBase + raw
	default:
		err = ErrMode{Code: inst.Code, Param: n + 1}
		return
	}

	if addr < 0 {
		err = ErrAddress(addr)
	}

	return
}

// value resolves the n'th parameter to the value it designates.
func (cpu *Cpu) value(inst Instruction, n int) (value int64, err error) {
	if inst.Modes[n] == MODE_IMMEDIATE {
		return cpu.parameter(n)
	}

	addr, err := cpu.address(inst, n)
	if err != nil {
		return
	}

	return cpu.Memory.Load(addr)
}

// store writes to the address designated by the n'th parameter.
func (cpu *Cpu) store(inst Instruction, n int, value int64) (err error) {
	addr, err := cpu.address(inst, n)
	if err != nil {
		return
	}

	return cpu.Memory.Store(addr, value)
}

// disassemble renders the instruction at Ip.
func (cpu *Cpu) disassemble(inst Instruction) string {
	params := make([]int64, 0, 3)
	for n := range inst.Opcode.Params() {
		addr := cpu.Ip + 1 + int64(n)
		if addr >= int64(len(cpu.Memory)) {
			break
		}
		params = append(params, cpu.Memory[addr])
	}

	return inst.Disassemble(params...)
}
