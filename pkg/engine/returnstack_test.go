package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnStackPushPop(t *testing.T) {
	rs := NewReturnStack(0)
	rs.Push(0x1000)
	rs.Push(0x2000)
	assert.Equal(t, 2, rs.Len())

	addr, ok := rs.Pop()
	require.True(t, ok)
	assert.Equal(t, uint64(0x2000), addr)

	addr, ok = rs.Pop()
	require.True(t, ok)
	assert.Equal(t, uint64(0x1000), addr)

	_, ok = rs.Pop()
	assert.False(t, ok, "pop from empty stack must report ok=false")
}

func TestReturnStackOverflowDropsOldest(t *testing.T) {
	rs := NewReturnStack(2)
	rs.Push(1)
	rs.Push(2)
	rs.Push(3) // 1 should be dropped

	addr, _ := rs.Pop()
	assert.Equal(t, uint64(3), addr)
	addr, _ = rs.Pop()
	assert.Equal(t, uint64(2), addr)
	assert.Equal(t, 0, rs.Len())
}

func TestReturnStackClear(t *testing.T) {
	rs := NewReturnStack(4)
	rs.Push(1)
	rs.Push(2)
	rs.Clear()
	assert.Equal(t, 0, rs.Len())
	_, ok := rs.Pop()
	assert.False(t, ok)
}
