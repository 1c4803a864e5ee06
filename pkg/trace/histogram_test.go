package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramRecordAndCount(t *testing.T) {
	h := NewHistogram(nil)
	h.Record(0, 0x1000)
	h.Record(0, 0x1004)
	h.Record(0, 0x1000)
	h.Record(1, 0x1000)

	assert.Equal(t, uint64(2), h.CountAt(0, 0x1000))
	assert.Equal(t, uint64(1), h.CountAt(0, 0x1004))
	assert.Equal(t, uint64(1), h.CountAt(1, 0x1000))
	assert.Equal(t, uint64(4), h.Total())
}

func TestHistogramSuppressesConsecutiveDuplicatePC(t *testing.T) {
	h := NewHistogram(nil)
	h.Record(0, 0x2000)
	h.Record(0, 0x2000)
	h.Record(0, 0x2000)
	h.Record(0, 0x2004)
	h.Record(0, 0x2000)

	assert.Equal(t, uint64(2), h.CountAt(0, 0x2000))
	assert.Equal(t, uint64(1), h.CountAt(0, 0x2004))
	assert.Equal(t, uint64(3), h.Total())
}

func TestHistogramDuplicateSuppressionIsPerCore(t *testing.T) {
	h := NewHistogram(nil)
	h.Record(0, 0x3000)
	h.Record(1, 0x3000)

	assert.Equal(t, uint64(1), h.CountAt(0, 0x3000))
	assert.Equal(t, uint64(1), h.CountAt(1, 0x3000))
	assert.Equal(t, uint64(2), h.Total())
}

func TestHistogramFiresProgressAtInterval(t *testing.T) {
	var calls []uint64
	h := NewHistogram(func(total uint64, bytesProcessed uint64, samples []Sample, final bool) {
		calls = append(calls, total)
		assert.False(t, final)
	})

	for i := 0; i < UpdateInterval; i++ {
		h.Record(0, uint64(i%16))
	}
	require.Len(t, calls, 1)
	assert.Equal(t, uint64(UpdateInterval), calls[0])
}

func TestHistogramFlushAlwaysFires(t *testing.T) {
	var finalSeen bool
	h := NewHistogram(func(total uint64, bytesProcessed uint64, samples []Sample, final bool) {
		if final {
			finalSeen = true
		}
	})
	h.Record(0, 1)
	h.Flush()
	assert.True(t, finalSeen)
}

func TestHistogramNilCallbackIsSafe(t *testing.T) {
	h := NewHistogram(nil)
	assert.NotPanics(t, func() {
		h.Record(0, 1)
		h.Flush()
	})
}

func TestHistogramBytesProcessedTracked(t *testing.T) {
	var lastBytes uint64
	h := NewHistogram(func(total uint64, bytesProcessed uint64, samples []Sample, final bool) {
		lastBytes = bytesProcessed
	})
	h.AddBytes(10)
	h.AddBytes(20)
	h.Record(0, 1)
	h.Flush()
	assert.Equal(t, uint64(30), h.BytesProcessed())
	assert.Equal(t, uint64(30), lastBytes)
}

func TestHistogramFlushAtSentinelFiresUnconditionally(t *testing.T) {
	var finals int
	h := NewHistogram(func(total uint64, bytesProcessed uint64, samples []Sample, final bool) {
		if final {
			finals++
		}
	})
	h.SetFlushAt(50)
	h.Record(0, 1)
	h.AddBytes(60)
	assert.Equal(t, 1, finals)
}
