package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_Grow(t *testing.T) {
	assert := assert.New(t)

	mem := Memory{1, 2, 3}

	value, err := mem.Load(10)
	assert.NoError(err)
	assert.Equal(int64(0), value)
	assert.Equal(11, len(mem))

	assert.NoError(mem.Store(20, -5))
	assert.Equal(21, len(mem))

	value, err = mem.Load(20)
	assert.NoError(err)
	assert.Equal(int64(-5), value)

	for addr := range int64(20) {
		value, err = mem.Load(addr)
		assert.NoError(err)
		if addr < 3 {
			assert.Equal(addr+1, value)
		} else {
			assert.Equal(int64(0), value, addr)
		}
	}
}

func TestMemory_GrowZeroFills(t *testing.T) {
	assert := assert.New(t)

	mem := Memory{7, 7, 7, 7, 7, 7}
	mem = mem[:2]

	value, err := mem.Load(4)
	assert.NoError(err)
	assert.Equal(int64(0), value)
	assert.Equal(Memory{7, 7, 0, 0, 0}, mem)
}

func TestMemory_Invalid(t *testing.T) {
	assert := assert.New(t)

	var mem Memory

	_, err := mem.Load(-1)
	assert.Equal(ErrAddress(-1), err)

	err = mem.Store(-100, 1)
	assert.Equal(ErrAddress(-100), err)

	_, err = mem.Load(MEMORY_LIMIT)
	assert.ErrorIs(err, ErrAddress(0))

	assert.Equal(0, len(mem))
}
