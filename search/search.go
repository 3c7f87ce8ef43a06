// Package search explores the behavior of Intcode programs, either by
// re-running a whole program under different seeds, or by branching a
// machine's state at every input it asks for.
package search

import (
	"log"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
)

// SEED_LIMIT bounds the noun and verb tried by NounVerb.
const SEED_LIMIT = 100

// NounVerb finds the first noun and verb, each in 0..99, for which the
// program leaves target in cell 0.
func NounVerb(prog cpu.Program, target int64) (noun, verb int64, err error) {
	emu := emulator.NewEmulator(prog)

	for noun = range int64(SEED_LIMIT) {
		for verb = range int64(SEED_LIMIT) {
			var value int64
			value, err = emu.Execute(&emulator.Seed{Noun: noun, Verb: verb})
			if err != nil {
				return
			}
			if value == target {
				return
			}
		}
	}

	noun, verb = 0, 0
	err = ErrNotFound
	return
}

// Status is the machine's answer to a move.
type Status int64

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_BLOCKED = Status(0) // blocked
	STATUS_MOVED   = Status(1) // moved
	STATUS_GOAL    = Status(2) // goal
)

// Move is an input to offer the machine, and the key it leads to.
type Move[K comparable] struct {
	Input int64
	Next  K
}

// Result reports what a breadth-first exploration found.
type Result[K comparable] struct {
	Found   bool               // Set if the goal was reached.
	Goal    K                  // Key of the goal.
	Machine *emulator.Emulator // Machine as it stood on reaching the goal.
	Depth   map[K]int          // Moves needed to reach every reachable key.
}

// GoalDepth returns the number of moves to the goal, or -1 if it was not found.
func (res *Result[K]) GoalDepth() int {
	if !res.Found {
		return -1
	}
	return res.Depth[res.Goal]
}

// MaxDepth returns the depth of the farthest reachable key.
func (res *Result[K]) MaxDepth() (depth int) {
	for _, value := range res.Depth {
		depth = max(depth, value)
	}
	return
}

// Explorer walks a state space driven by a machine. Each move is offered
// to a clone of the machine at the parent key; its single output is the
// Status of the move.
type Explorer[K comparable] struct {
	Verbose bool                  // If set, enables verbose logging.
	Moves   func(key K) []Move[K] // Candidate moves from a key.
}

type frontier[K comparable] struct {
	key K
	emu *emulator.Emulator
}

// Breadth explores from origin, breadth first, with emu in the state that
// belongs to origin. The goal is the first key whose move answered
// STATUS_GOAL, and Machine is left as it stood there, ready for a second
// exploration rooted at the goal. Exploration continues past the goal, so
// Depth covers every reachable key.
func (ex *Explorer[K]) Breadth(emu *emulator.Emulator, origin K) (res Result[K], err error) {
	res.Depth = map[K]int{origin: 0}
	seen := map[K]bool{origin: true}

	queue := []frontier[K]{{key: origin, emu: emu.Clone()}}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		for _, move := range ex.Moves(parent.key) {
			if seen[move.Next] {
				continue
			}
			seen[move.Next] = true

			child := parent.emu.Clone()
			child.Input().Enqueue(move.Input)

			var state cpu.State
			state, err = child.Step()
			if err != nil {
				return
			}
			if state != cpu.STATE_HAS_OUTPUT {
				err = ErrNoResponse
				return
			}

			output, _ := child.Output().Dequeue()
			status := Status(output)

			if ex.Verbose {
				log.Printf("search: %v -> %v: %v", parent.key, move.Next, status)
			}

			switch status {
			case STATUS_BLOCKED:
				continue
			case STATUS_MOVED, STATUS_GOAL:
			default:
				err = ErrStatus(output)
				return
			}

			res.Depth[move.Next] = res.Depth[parent.key] + 1
			queue = append(queue, frontier[K]{key: move.Next, emu: child})

			if status == STATUS_GOAL && !res.Found {
				res.Found = true
				res.Goal = move.Next
				res.Machine = child.Clone()
			}
		}
	}

	return
}
