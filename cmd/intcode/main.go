// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"iter"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/ezrec/intcode/config"
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/internal"
	"github.com/ezrec/intcode/pipeline"
	"github.com/ezrec/intcode/search"
	"github.com/ezrec/intcode/translate"
)

// parseValues splits a comma or space separated list of integers.
func parseValues(text string) (values []int64, err error) {
	for _, word := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		var value int64
		value, err = strconv.ParseInt(word, 0, 64)
		if err != nil {
			err = cpu.ErrParseNumber(word)
			return
		}
		values = append(values, value)
	}
	return
}

// stdinValues reads values from stdin on demand, prompting when stdin is a
// terminal.
func stdinValues(scanner *bufio.Scanner) iter.Seq[int64] {
	prompt := term.IsTerminal(int(os.Stdin.Fd()))
	return func(yield func(int64) bool) {
		for {
			if prompt {
				fmt.Fprint(os.Stderr, "? ")
			}
			if !scanner.Scan() {
				return
			}
			values, err := parseValues(scanner.Text())
			if err != nil {
				log.Printf("input: %v", err)
				continue
			}
			for _, value := range values {
				if !yield(value) {
					return
				}
			}
		}
	}
}

// inputValues builds the input stream from the -i flag, where a "-" entry
// splices in values read from stdin.
func inputValues(list string, scanner *bufio.Scanner) (seq iter.Seq[int64], err error) {
	var seqs []iter.Seq[int64]
	for _, word := range strings.Split(list, ",") {
		word = strings.TrimSpace(word)
		switch word {
		case "":
			continue
		case "-":
			seqs = append(seqs, stdinValues(scanner))
		default:
			var values []int64
			values, err = parseValues(word)
			if err != nil {
				return
			}
			seqs = append(seqs, slices.Values(values))
		}
	}

	seq = internal.IterSeqConcat(seqs...)
	return
}

func main() {
	var compile string
	var input string
	var noun int64
	var verb int64
	var target int64
	var dump bool
	var amplify bool
	var phases string
	var configFile string
	var save string
	var restore string
	var verbose bool

	flag.StringVar(&compile, "c", "", "assembler source to compile, instead of program text")
	flag.StringVar(&input, "i", "-", "comma separated input values, '-' reads stdin")
	flag.Int64Var(&noun, "noun", -1, "value seeded into cell 1")
	flag.Int64Var(&verb, "verb", -1, "value seeded into cell 2")
	flag.Int64Var(&target, "target", -1, "search for the noun and verb that produce this value")
	flag.BoolVar(&dump, "dump", false, "print cell 0 after halting")
	flag.BoolVar(&amplify, "pipeline", false, "find the maximum pipeline signal")
	flag.StringVar(&phases, "phases", "", "comma separated pipeline phase settings")
	flag.StringVar(&configFile, "config", "", ".toml configuration file")
	flag.StringVar(&save, "save", "", "snapshot file written when starved for input")
	flag.StringVar(&restore, "restore", "", "snapshot file to resume from")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	cfg := config.Default()
	if len(configFile) != 0 {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	verbose = verbose || cfg.Verbose
	if len(cfg.Language) != 0 {
		translate.SetLanguage(cfg.Language)
	}

	var prog cpu.Program
	var lst *cpu.Listing

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		lst, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		prog = lst.Program()
	case flag.NArg() == 1 && flag.Arg(0) != "-":
		path := flag.Arg(0)
		inf, err := os.Open(path)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
		defer inf.Close()

		prog, err = cpu.ReadProgram(inf)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
	case len(restore) != 0:
		// The snapshot carries the whole machine.
	default:
		var err error
		prog, err = cpu.ReadProgram(os.Stdin)
		if err != nil {
			log.Fatalf("%v: %v", "-", err)
		}
	}

	if amplify {
		settings := cfg.Pipeline.Phases
		if len(phases) != 0 {
			var err error
			settings, err = parseValues(phases)
			if err != nil {
				log.Fatalf("-phases: %v", err)
			}
		}

		p := &pipeline.Pipeline{
			Verbose:  verbose,
			Program:  prog,
			Capacity: cfg.Queue.Capacity,
			Seed:     cfg.Pipeline.Seed,
			Jobs:     cfg.Pipeline.Jobs,
		}
		best, err := p.MaxSignal(settings)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d %v\n", best.Signal, best.Phases)
		return
	}

	if target >= 0 {
		noun, verb, err := search.NounVerb(prog, target)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(100*noun + verb)
		return
	}

	emu := emulator.NewEmulator(prog)
	emu.Listing = lst
	emu.Verbose = verbose

	if noun >= 0 || verb >= 0 {
		value, err := emu.Execute(&emulator.Seed{Noun: max(noun, 0), Verb: max(verb, 0)})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(value)
		return
	}

	if len(restore) != 0 {
		inf, err := os.Open(restore)
		if err != nil {
			log.Fatalf("%v: %v", restore, err)
		}
		err = emu.Restore(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", restore, err)
		}
	}

	values, err := inputValues(input, bufio.NewScanner(os.Stdin))
	if err != nil {
		log.Fatalf("-i: %v", err)
	}
	next, stop := iter.Pull(values)
	defer stop()

	for {
		state, err := emu.Step()
		if err != nil {
			log.Fatal(err)
		}

		switch state {
		case cpu.STATE_HAS_OUTPUT:
			for value := range emu.Output().Values() {
				fmt.Println(value)
			}
			continue
		case cpu.STATE_AWAITING_INPUT:
			value, ok := next()
			if ok {
				emu.Input().Enqueue(value)
				continue
			}
			if len(save) != 0 {
				ouf, err := os.Create(save)
				if err != nil {
					log.Fatalf("%v: %v", save, err)
				}
				err = emu.Save(ouf)
				ouf.Close()
				if err != nil {
					log.Fatalf("%v: %v", save, err)
				}
				return
			}
			log.Fatal(emulator.ErrStarved)
		}

		break
	}

	if dump {
		value, _ := emu.Memory.Load(0)
		fmt.Println(value)
	}
}
