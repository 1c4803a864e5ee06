package elf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDisassemblerFetchRaw(t *testing.T) {
	image := []byte{0xef, 0x00, 0x40, 0x00, 0x82, 0x80}
	d := NewMemoryDisassembler(0x1000, image, 32)

	raw, err := d.FetchRaw(0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x004000ef), raw)

	raw, err = d.FetchRaw(0x1004)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8082), uint16(raw))

	assert.Equal(t, 32, d.XLen())
}

func TestMemoryDisassemblerOutOfRange(t *testing.T) {
	d := NewMemoryDisassembler(0x1000, []byte{1, 2}, 64)
	_, err := d.FetchRaw(0x2000)
	assert.Error(t, err)
}
