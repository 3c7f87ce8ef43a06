package pipeline

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/queue"
)

func mustParse(t testing.TB, text string) cpu.Program {
	prog, err := cpu.ParseProgram(text)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

// addPhase reads a phase and a value, and outputs their sum.
const addPhase = "3,11,3,12,1,11,12,13,4,13,99,0,0,0"

const feedbackLoop = "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5"

func TestPipelineSignal(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program string
		phases  []int64
		signal  int64
	}){
		{"3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0", []int64{4, 3, 2, 1, 0}, 43210},
		{"3,23,3,24,1002,24,10,24,1002,23,-1,23,101,5,23,23,1,24,23,23,4,23,99,0,0", []int64{0, 1, 2, 3, 4}, 54321},
		{"3,31,3,32,1002,32,10,32,1001,31,-2,31,1007,31,0,33,1002,33,7,33,1,33,31,31,1,32,31,31,4,31,99,0,0,0", []int64{1, 0, 4, 3, 2}, 65210},
		{feedbackLoop, []int64{9, 8, 7, 6, 5}, 139629729},
	}

	for _, entry := range table {
		p := &Pipeline{Program: mustParse(t, entry.program)}
		signal, err := p.Signal(entry.phases)
		assert.NoError(err, entry.program)
		assert.Equal(entry.signal, signal, entry.program)
	}
}

func TestPipelineMaxSignal(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program  string
		settings []int64
		signal   int64
		phases   []int64
	}){
		{
			"3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0",
			[]int64{0, 1, 2, 3, 4}, 43210, []int64{4, 3, 2, 1, 0},
		},
		{
			"3,23,3,24,1002,24,10,24,1002,23,-1,23,101,5,23,23,1,24,23,23,4,23,99,0,0",
			[]int64{0, 1, 2, 3, 4}, 54321, []int64{0, 1, 2, 3, 4},
		},
		{
			"3,31,3,32,1002,32,10,32,1001,31,-2,31,1007,31,0,33,1002,33,7,33,1,33,31,31,1,32,31,31,4,31,99,0,0,0",
			[]int64{0, 1, 2, 3, 4}, 65210, []int64{1, 0, 4, 3, 2},
		},
		{
			feedbackLoop,
			[]int64{5, 6, 7, 8, 9}, 139629729, []int64{9, 8, 7, 6, 5},
		},
		{
			"3,52,1001,52,-5,52,3,53,1,52,56,54,1007,54,5,55,1005,55,26,1001,54,-5,54,1105,1,12,1,53," +
				"54,53,1008,54,0,55,1001,55,1,55,2,53,55,53,4,53,1001,56,-1,56,1005,56,6,99,0,0,0,0,10",
			[]int64{5, 6, 7, 8, 9}, 18216, []int64{9, 7, 8, 5, 6},
		},
	}

	for _, entry := range table {
		for _, jobs := range []int{1, 4} {
			p := &Pipeline{Program: mustParse(t, entry.program), Capacity: 2, Jobs: jobs}
			result, err := p.MaxSignal(entry.settings)
			assert.NoError(err)
			assert.Equal(entry.signal, result.Signal)
			assert.Equal(entry.phases, result.Phases)
		}
	}
}

func TestPipelineAddPhase(t *testing.T) {
	assert := assert.New(t)

	p := &Pipeline{Program: mustParse(t, addPhase), Seed: 100}

	signal, err := p.Signal([]int64{1, 2, 3, 4, 5})
	assert.NoError(err)
	assert.Equal(int64(115), signal)

	signal, err = p.Signal([]int64{-7})
	assert.NoError(err)
	assert.Equal(int64(93), signal)
}

func TestPipelineBarrier(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(7))
	prog := mustParse(t, addPhase)

	for range 200 {
		stages := 1 + rng.Intn(8)
		phases := make([]int64, stages)
		expected := int64(rng.Intn(1000) - 500)
		seed := expected
		for n := range phases {
			phases[n] = int64(rng.Intn(100))
			expected += phases[n]
		}

		p := &Pipeline{Program: prog, Seed: seed, Capacity: 2 + rng.Intn(4)}
		signal, err := p.Signal(phases)
		assert.NoError(err)
		assert.Equal(expected, signal, "phases %v seed %v", phases, seed)
	}
}

func TestPipelineErrors(t *testing.T) {
	assert := assert.New(t)

	p := &Pipeline{Program: mustParse(t, addPhase)}
	_, err := p.Signal(nil)
	assert.ErrorIs(err, ErrNoStages)
	_, err = p.MaxSignal(nil)
	assert.ErrorIs(err, ErrNoStages)

	p = &Pipeline{Program: mustParse(t, "99")}
	_, err = p.Signal([]int64{0, 1})
	assert.ErrorIs(err, ErrNoSignal)

	// Phase 3 runs into an invalid opcode; every other phase echoes.
	p = &Pipeline{Program: mustParse(t, "3,20,1008,20,3,21,1005,21,14,3,22,4,22,99,42")}
	_, err = p.Signal([]int64{0, 1, 3, 2})
	var stage *ErrStage
	if assert.True(errors.As(err, &stage), "%v", err) {
		assert.Equal(2, stage.Stage)
		assert.Equal(int64(3), stage.Phase)
	}
	assert.ErrorIs(err, cpu.ErrOpcode(0))
	assert.False(errors.Is(err, queue.ErrQueueDisconnected))

	_, err = p.MaxSignal([]int64{0, 3})
	assert.ErrorIs(err, cpu.ErrOpcode(0))
}

func TestPipelineDownstreamHalted(t *testing.T) {
	assert := assert.New(t)

	// Reads a count and a value, then outputs the value count times.
	repeat := "3,30,3,31,1006,30,16,4,31,1001,30,-1,30,1105,1,4,99"

	// Stage 0 halts after one output, while stage 1 keeps writing far past
	// the queue capacity.
	p := &Pipeline{Program: mustParse(t, repeat), Capacity: 2, Seed: 5}

	type outcome struct {
		signal int64
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		signal, err := p.Signal([]int64{1, 20})
		done <- outcome{signal, err}
	}()

	select {
	case out := <-done:
		assert.NoError(out.err)
		assert.Equal(int64(5), out.signal)
	case <-time.After(10 * time.Second):
		t.Fatal("pipeline blocked after stage 0 halted")
	}
}

func TestPermutations(t *testing.T) {
	assert := assert.New(t)

	values := []int64{5, 6, 7, 8, 9}
	seen := map[[5]int64]bool{}
	for perm := range Permutations(values) {
		sorted := slices.Clone(perm)
		slices.Sort(sorted)
		assert.Equal(values, sorted)
		seen[[5]int64(perm)] = true
	}
	assert.Equal(120, len(seen))
	assert.Equal([]int64{5, 6, 7, 8, 9}, values)

	var all [][]int64
	for perm := range Permutations(nil) {
		all = append(all, perm)
	}
	assert.Equal(1, len(all))
	assert.Equal(0, len(all[0]))

	count := 0
	for range Permutations(values) {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(3, count)
}

func BenchmarkPipelineMaxSignal(b *testing.B) {
	p := &Pipeline{Program: mustParse(b, feedbackLoop)}
	settings := []int64{5, 6, 7, 8, 9}

	for b.Loop() {
		_, err := p.MaxSignal(settings)
		if err != nil {
			b.Fatal(err)
		}
	}
}
