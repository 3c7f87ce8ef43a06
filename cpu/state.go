package cpu

// State is the execution status reported after driving a machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNABLE       = State(0) // runnable
	STATE_AWAITING_INPUT = State(1) // awaiting input
	STATE_HAS_OUTPUT     = State(2) // has output
	STATE_HALTED         = State(3) // halted
)
