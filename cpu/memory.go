package cpu

// MEMORY_LIMIT is the largest number of cells a machine may grow to.
const MEMORY_LIMIT = 1 << 24

// Memory is the zero-indexed, growable address space of a machine.
//
// Any non-negative address below MEMORY_LIMIT is valid. Accessing an address
// at or beyond the current length grows memory to cover it, zero-filling the
// new cells.
type Memory []int64

// Load returns the value at addr.
func (mem *Memory) Load(addr int64) (value int64, err error) {
	err = mem.grow(addr)
	if err != nil {
		return
	}

	value = (*mem)[addr]
	return
}

// Store sets the value at addr.
func (mem *Memory) Store(addr int64, value int64) (err error) {
	err = mem.grow(addr)
	if err != nil {
		return
	}

	(*mem)[addr] = value
	return
}

// grow extends memory so that addr is valid.
func (mem *Memory) grow(addr int64) (err error) {
	if addr < 0 || addr >= MEMORY_LIMIT {
		err = ErrAddress(addr)
		return
	}

	if addr < int64(len(*mem)) {
		return
	}

	need := int(addr) + 1
	if need <= cap(*mem) {
		// Cells past len may hold stale values from an earlier shrink.
		tail := (*mem)[len(*mem):need]
		clear(tail)
		*mem = (*mem)[:need]
		return
	}

	grown := make(Memory, need, max(need, 2*cap(*mem)))
	copy(grown, *mem)
	*mem = grown

	return
}
