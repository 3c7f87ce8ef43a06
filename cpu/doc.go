// Package cpu implements the Intcode machine, its program loader and assembler.
//
// A machine (Cpu) owns a growable Memory seeded from an immutable Program, an
// instruction pointer (Ip), a relative base register, and a pair of queues for
// input and output. Instructions are decoded from a single word: the low two
// decimal digits select the opcode, and each higher digit selects the
// addressing mode (position, immediate or relative) of one parameter.
//
// Execution is driven one instruction at a time (Tick), up to the next I/O
// event (Step), or until the machine halts or starves for input (Run). A
// starved machine reports STATE_AWAITING_INPUT and leaves its Ip on the input
// instruction, so it resumes cleanly once input is supplied. Machines are
// values: Clone forks an independent copy for branching searches, and
// Snapshot captures one for storage.
//
// The assembler provides a small line-oriented language for Intcode, with
// labels, equates, macros and compile-time expression evaluation.
package cpu
