// Package pipeline chains Intcode machines into a ring, one goroutine per
// stage, connected by bounded queues.
//
//	queue N-1      queue 0      queue 1             queue N-1
//	...------ stage 0 ----- stage 1 ----- ... stage N-1 ------...
//
// Every stage is primed with its phase setting, and stage 0 additionally with
// the seed, before any stage starts running. A stage that halts stops
// reading, and the stage feeding it ends at its next output. The signal is
// the last value produced by stage N-1 once every stage has finished.
package pipeline

import (
	"errors"
	"log"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/queue"
)

// Pipeline evaluates a program as a ring of amplifier stages.
type Pipeline struct {
	Verbose  bool        // If set, enables verbose logging.
	Program  cpu.Program // Program run by every stage.
	Capacity int         // Capacity of each inter-stage queue.
	Seed     int64       // Value fed to stage 0 after its phase.
	Jobs     int         // Phase orders evaluated concurrently by MaxSignal.
}

// Result is the best signal found, and the phase order that produced it.
type Result struct {
	Signal int64
	Phases []int64
}

// tap records the last value written to a queue. A value refused because
// the consumer has halted still counts: it is the final output of the ring.
type tap struct {
	queue.Queue
	last  int64
	valid bool
}

func (t *tap) Enqueue(value int64) (err error) {
	err = t.Queue.Enqueue(value)
	if err == nil || errors.Is(err, queue.ErrQueueDisconnected) {
		t.last = value
		t.valid = true
	}
	return
}

// downstreamGone reports if a machine stopped only because the stage it
// feeds has already halted.
func downstreamGone(err error) bool {
	return errors.Is(err, cpu.ErrOutput) && errors.Is(err, queue.ErrQueueDisconnected)
}

// capacity returns the queue capacity, large enough to hold stage 0's
// phase and seed before the ring starts.
func (p *Pipeline) capacity() int {
	if p.Capacity <= 0 {
		return queue.BOUNDED_DEFAULT_CAPACITY
	}
	return max(p.Capacity, 2)
}

// Signal runs one stage per phase, in order, and returns the final output of
// the last stage.
func (p *Pipeline) Signal(phases []int64) (signal int64, err error) {
	stages := len(phases)
	if stages == 0 {
		err = ErrNoStages
		return
	}

	// Queue n is the output of stage n, and the input of stage n+1.
	queues := make([]*queue.Bounded, stages)
	for n := range queues {
		queues[n] = queue.NewBounded(p.capacity())
	}

	var barrier sync.WaitGroup
	barrier.Add(stages)

	errs := make([]error, stages)
	final := &tap{Queue: queues[stages-1]}

	var g errgroup.Group
	for n, phase := range phases {
		input := queues[(n+stages-1)%stages]
		output := queues[n]

		g.Go(func() (err error) {
			defer func() {
				output.Hangup()
				input.Abandon()
				if err != nil {
					err = &ErrStage{Stage: n, Phase: phase, Err: err}
					errs[n] = err
				}
			}()

			err = input.Enqueue(phase)
			if err == nil && n == 0 {
				err = input.Enqueue(p.Seed)
			}

			barrier.Done()
			barrier.Wait()

			if err != nil {
				return
			}

			var sink queue.Queue = output
			if n == stages-1 {
				sink = final
			}

			machine := cpu.NewCpu(p.Program, input, sink)
			machine.Verbose = p.Verbose

			_, err = machine.Run()
			if downstreamGone(err) {
				err = nil
			}

			if p.Verbose {
				log.Printf("pipeline: stage %d (phase %d) done, %d ticks", n, phase, machine.Ticks)
			}

			return
		})
	}

	err = g.Wait()
	if err != nil {
		// Report the stage that failed first, not its disconnected peers.
		for _, stage_err := range errs {
			if stage_err != nil && !errors.Is(stage_err, queue.ErrQueueDisconnected) {
				err = stage_err
				break
			}
		}
		return
	}

	if !final.valid {
		err = ErrNoSignal
		return
	}

	signal = final.last

	if p.Verbose {
		log.Printf("pipeline: phases %v signal %d", phases, signal)
	}

	return
}

// MaxSignal evaluates every ordering of the phase settings, and returns the
// largest signal. Ties go to the ordering generated first.
func (p *Pipeline) MaxSignal(settings []int64) (best Result, err error) {
	if len(settings) == 0 {
		err = ErrNoStages
		return
	}

	orders := slices.Collect(Permutations(settings))
	signals := make([]int64, len(orders))

	jobs := p.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	ch := make(chan int, len(orders))
	for range jobs {
		g.Go(func() error {
			for n := range ch {
				signal, err := p.Signal(orders[n])
				if err != nil {
					return err
				}
				signals[n] = signal
			}
			return nil
		})
	}
	for n := range orders {
		ch <- n
	}
	close(ch)

	err = g.Wait()
	if err != nil {
		return
	}

	for n, signal := range signals {
		if n == 0 || signal > best.Signal {
			best = Result{Signal: signal, Phases: orders[n]}
		}
	}

	return
}
