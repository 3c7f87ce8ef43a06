package cpu

import (
	"io"
	"strconv"
	"strings"
)

// Program is an immutable memory image, shared by every machine loaded from it.
type Program []int64

// ParseProgram parses comma separated signed integers.
// Whitespace around each field, and a trailing newline, are ignored.
func ParseProgram(text string) (prog Program, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrProgramEmpty
		return
	}

	fields := strings.Split(text, ",")
	prog = make(Program, 0, len(fields))
	for n, field := range fields {
		word := strings.TrimSpace(field)
		var value int64
		value, err = strconv.ParseInt(word, 10, 64)
		if err != nil {
			err = &ErrField{Index: n, Err: ErrParseNumber(word)}
			prog = nil
			return
		}
		prog = append(prog, value)
	}

	return
}

// ReadProgram parses a program from a reader.
func ReadProgram(input io.Reader) (prog Program, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return ParseProgram(string(data))
}

// Memory returns a private, mutable copy of the program.
func (prog Program) Memory() Memory {
	mem := make(Memory, len(prog))
	copy(mem, prog)
	return mem
}

// String renders the program in its text format.
func (prog Program) String() string {
	words := make([]string, len(prog))
	for n, value := range prog {
		words[n] = strconv.FormatInt(value, 10)
	}
	return strings.Join(words, ",")
}
