// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/intcode/internal"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Opcode and mode numbers, for hand-built .data words.
var opcodeEquate = map[string]string{
	"OP_ADD": fmt.Sprintf("%d", OP_ADD),
	"OP_MUL": fmt.Sprintf("%d", OP_MUL),
	"OP_IN":  fmt.Sprintf("%d", OP_IN),
	"OP_OUT": fmt.Sprintf("%d", OP_OUT),
	"OP_JT":  fmt.Sprintf("%d", OP_JT),
	"OP_JF":  fmt.Sprintf("%d", OP_JF),
	"OP_LT":  fmt.Sprintf("%d", OP_LT),
	"OP_EQ":  fmt.Sprintf("%d", OP_EQ),
	"OP_ARB": fmt.Sprintf("%d", OP_ARB),
	"OP_HLT": fmt.Sprintf("%d", OP_HLT),
}

var modeEquate = map[string]string{
	"MODE_POSITION":  fmt.Sprintf("%d", MODE_POSITION),
	"MODE_IMMEDIATE": fmt.Sprintf("%d", MODE_IMMEDIATE),
	"MODE_RELATIVE":  fmt.Sprintf("%d", MODE_RELATIVE),
}

// mnemonicMap maps instruction names to opcodes.
var mnemonicMap = map[string]Opcode{
	"add": OP_ADD,
	"mul": OP_MUL,
	"in":  OP_IN,
	"out": OP_OUT,
	"jt":  OP_JT,
	"jf":  OP_JF,
	"lt":  OP_LT,
	"eq":  OP_EQ,
	"arb": OP_ARB,
	"hlt": OP_HLT,
}

var labelRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Link is a cell whose value is the address of a label, resolved once the
// whole source has been read.
type Link struct {
	Index int    // Index of the cell in the statement.
	Label string // Label name.
}

// Statement is a line of assembled source with the cells it generated.
type Statement struct {
	LineNo int
	Ip     int
	Words  []string
	Cells  []int64
	Links  []Link
}

// Listing is an assembled program along with its source mapping.
type Listing struct {
	Statements []Statement
}

// Debug locates the statement that generated a cell.
type Debug struct {
	*Statement
	Index int
}

// Program returns the memory image of the listing.
func (lst *Listing) Program() (prog Program) {
	prog = Program{}
	for _, stmt := range lst.Statements {
		prog = append(prog, stmt.Cells...)
	}
	return
}

// Debug returns the statement that generated the cell at ip.
func (lst *Listing) Debug(ip int64) (dbg Debug) {
	for n, stmt := range lst.Statements {
		if ip >= int64(stmt.Ip) && ip < int64(stmt.Ip+len(stmt.Cells)) {
			dbg = Debug{
				Statement: &lst.Statements[n],
				Index:     int(ip - int64(stmt.Ip)),
			}
			break
		}
	}

	return
}

// LineNo returns the source line for the cell at ip, or 0 if unknown.
func (lst *Listing) LineNo(ip int64) int {
	dbg := lst.Debug(ip)
	if dbg.Statement == nil {
		return 0
	}
	return dbg.LineNo
}

// Assembler is a single pass macro assembler for Intcode.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string   // Predefines
	expansion int                 // Count of macro expansions.
	Label     map[string]int      // Map of labels to cell addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple numeric word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// cellOf converts a word into a cell value, or a label link.
func (asm *Assembler) cellOf(word string) (value int64, label string, err error) {
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}

	if labelRegexp.MatchString(word) {
		label = word
		return
	}

	value, err = asm.valueOf(word)
	return
}

// operandOf decodes an operand word into its mode and cell.
//
//	N, label         position
//	#N, #label       immediate
//	rb, rb+N, rb-N   relative
func (asm *Assembler) operandOf(word string) (mode Mode, value int64, label string, err error) {
	switch {
	case strings.HasPrefix(word, "#"):
		mode = MODE_IMMEDIATE
		word = word[1:]
	case word == "rb":
		mode = MODE_RELATIVE
		return
	case strings.HasPrefix(word, "rb+"):
		mode = MODE_RELATIVE
		word = word[3:]
	case strings.HasPrefix(word, "rb-"):
		mode = MODE_RELATIVE
		value, err = asm.valueOf(word[3:])
		if err != nil {
			err = ErrParseOperand(word)
		}
		value = -value
		return
	default:
		mode = MODE_POSITION
	}

	value, label, err = asm.cellOf(word)
	if err != nil {
		err = ErrParseOperand(word)
		return
	}

	if mode == MODE_RELATIVE && len(label) != 0 {
		// Relative offsets are frame offsets, never addresses.
		err = ErrParseOperand(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var charRegexp = regexp.MustCompile(`'\\?[^']'`)
var parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine parses a single line into words, handling equates, labels and
// macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "t":
				str = "\t"
			case "s":
				str = " "
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the address of the next cell to be generated.
func (asm *Assembler) currentIp() int {
	if len(asm.Statement) == 0 {
		return 0
	}

	last := asm.Statement[len(asm.Statement)-1]

	return last.Ip + len(last.Cells)
}

// Parse parses an input stream into a Listing.
func (asm *Assembler) Parse(input io.Reader) (lst *Listing, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.expansion = 0
	asm.Statement = asm.Statement[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Collect(internal.IterSeq2Concat(
		maps.All(sysEquate),
		maps.All(opcodeEquate),
		maps.All(modeEquate),
		maps.All(asm.predefine),
	))

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		stmt := &asm.Statement[n]
		for _, link := range stmt.Links {
			ip, ok := asm.Label[link.Label]
			if !ok {
				lineno = stmt.LineNo
				line = strings.Join(stmt.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			stmt.Cells[link.Index] += int64(ip)
		}
	}

	lst = &Listing{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var cells []int64
	var links []Link

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(cells) == 0 {
			return
		}
		stmt := Statement{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Cells: cells, Links: links}
		asm.Statement = append(asm.Statement, stmt)
	}()

	// .data VALUE...
	if words[0] == ".data" {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for n, word := range words[1:] {
			var value int64
			var label string
			value, label, err = asm.cellOf(word)
			if err != nil {
				return
			}
			if len(label) != 0 {
				links = append(links, Link{Index: n, Label: label})
			}
			cells = append(cells, value)
		}
		return
	}

	op, ok := mnemonicMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	if len(args) < op.Params() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Params() {
		err = ErrOpcodeExtraArgs
		return
	}

	modes := make([]Mode, len(args))
	cells = make([]int64, 1+len(args))
	for n, arg := range args {
		var label string
		modes[n], cells[1+n], label, err = asm.operandOf(arg)
		if err != nil {
			cells = nil
			return
		}
		if len(label) != 0 {
			links = append(links, Link{Index: 1 + n, Label: label})
		}
	}

	target, ok := op.Target()
	if ok && modes[target] == MODE_IMMEDIATE {
		cells = nil
		err = ErrTargetImmediate
		return
	}

	cells[0] = int64(MakeCode(op, modes...))

	return
}
