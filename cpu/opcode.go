package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an operation selector, the low two decimal digits of a Code.
type Opcode int64

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD = Opcode(1)  // add
	OP_MUL = Opcode(2)  // mul
	OP_IN  = Opcode(3)  // in
	OP_OUT = Opcode(4)  // out
	OP_JT  = Opcode(5)  // jt
	OP_JF  = Opcode(6)  // jf
	OP_LT  = Opcode(7)  // lt
	OP_EQ  = Opcode(8)  // eq
	OP_ARB = Opcode(9)  // arb
	OP_HLT = Opcode(99) // hlt
)

// Valid returns true if the opcode is in the instruction catalogue.
func (op Opcode) Valid() bool {
	switch op {
	case OP_ADD, OP_MUL, OP_IN, OP_OUT, OP_JT, OP_JF, OP_LT, OP_EQ, OP_ARB, OP_HLT:
		return true
	}
	return false
}

// Params returns the number of parameters that follow the opcode.
func (op Opcode) Params() int {
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		return 3
	case OP_JT, OP_JF:
		return 2
	case OP_IN, OP_OUT, OP_ARB:
		return 1
	}
	return 0
}

// Target returns the index of the parameter the opcode writes to.
func (op Opcode) Target() (param int, ok bool) {
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		return 2, true
	case OP_IN:
		return 0, true
	}
	return
}

// Mode is a parameter addressing mode.
type Mode int64

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // position
	MODE_IMMEDIATE = Mode(1) // immediate
	MODE_RELATIVE  = Mode(2) // relative
)

// Valid returns true if the mode is known.
func (mode Mode) Valid() bool {
	return mode >= MODE_POSITION && mode <= MODE_RELATIVE
}

// Code is a single instruction word.
type Code int64

// MakeCode creates an instruction word from an opcode and parameter modes.
func MakeCode(op Opcode, modes ...Mode) Code {
	word := int64(op)
	scale := int64(100)
	for _, mode := range modes {
		word += int64(mode) * scale
		scale *= 10
	}
	return Code(word)
}

// Opcode returns the opcode portion of the word.
func (code Code) Opcode() Opcode {
	return Opcode(code % 100)
}

// Mode returns the addressing mode of the n'th (0-based) parameter.
func (code Code) Mode(n int) Mode {
	word := int64(code) / 100
	for range n {
		word /= 10
	}
	return Mode(word % 10)
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Code   Code
	Opcode Opcode
	Modes  [3]Mode
}

// Decode validates the word and splits it into opcode and parameter modes.
func (code Code) Decode() (inst Instruction, err error) {
	if code < 0 {
		err = ErrOpcode(code)
		return
	}

	op := code.Opcode()
	if !op.Valid() {
		err = ErrOpcode(code)
		return
	}

	inst.Code = code
	inst.Opcode = op

	params := op.Params()
	for n := range params {
		mode := code.Mode(n)
		if !mode.Valid() {
			err = ErrMode{Code: code, Param: n + 1}
			return
		}
		inst.Modes[n] = mode
	}

	// Mode digits beyond the last parameter are not permitted.
	if int64(code)/100 >= pow10(params) {
		err = ErrMode{Code: code, Param: params + 1}
		return
	}

	target, ok := op.Target()
	if ok && inst.Modes[target] == MODE_IMMEDIATE {
		err = ErrMode{Code: code, Param: target + 1}
		return
	}

	return
}

// Len returns the number of memory cells the instruction occupies.
func (inst Instruction) Len() int64 {
	return int64(1 + inst.Opcode.Params())
}

// Disassemble renders the instruction and its raw parameters in assembler syntax.
func (inst Instruction) Disassemble(params ...int64) string {
	words := []string{inst.Opcode.String()}
	for n := range inst.Opcode.Params() {
		if n >= len(params) {
			words = append(words, "?")
			continue
		}
		value := params[n]
		switch inst.Modes[n] {
		case MODE_POSITION:
			words = append(words, fmt.Sprintf("%d", value))
		case MODE_IMMEDIATE:
			words = append(words, fmt.Sprintf("#%d", value))
		case MODE_RELATIVE:
			switch {
			case value == 0:
				words = append(words, "rb")
			case value > 0:
				words = append(words, fmt.Sprintf("rb+%d", value))
			default:
				words = append(words, fmt.Sprintf("rb%d", value))
			}
		}
	}

	return strings.Join(words, " ")
}

// pow10 returns 10 to the n'th power.
func pow10(n int) (value int64) {
	value = 1
	for range n {
		value *= 10
	}
	return
}
