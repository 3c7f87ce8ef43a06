package cpu

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Program errors
	ErrProgramEmpty = errors.New(f("program empty"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrTargetImmediate    = errors.New(f("target is immediate"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Execution errors
	ErrInput  = errors.New(f("input failed"))
	ErrOutput = errors.New(f("output failed"))

	// Snapshot errors
	ErrSnapshotInvalid = errors.New(f("snapshot invalid"))
)

// ErrOpcode is an instruction word whose opcode is outside the catalogue.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %d in word %d", int64(Code(eo).Opcode()), int64(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrMode is an instruction word with an invalid parameter mode.
type ErrMode struct {
	Code  Code
	Param int // 1-based parameter index.
}

func (em ErrMode) Error() string {
	return f("bad mode %d for parameter %d in word %d", int64(em.Code.Mode(em.Param-1)), em.Param, int64(em.Code))
}

func (em ErrMode) Is(err error) (ok bool) {
	_, ok = err.(ErrMode)
	return
}

// ErrAddress is a resolved address that cannot be accessed.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("address %d invalid", int64(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrFault records where a machine stopped on a fatal error.
type ErrFault struct {
	Ip   int64
	Code Code
	Err  error
}

func (err *ErrFault) Error() string {
	return f("ip %d word %d: %v", err.Ip, int64(err.Code), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrField is a program text field that could not be parsed.
type ErrField struct {
	Index int // 0-based field index.
	Err   error
}

func (err *ErrField) Error() string {
	return f("field %d: %v", err.Index, err.Err)
}

func (err *ErrField) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseOperand string

func (err ErrParseOperand) Error() string {
	return f("'%v' is not an operand", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
