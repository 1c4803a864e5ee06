package commands

import (
	"testing"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/trace"
	"github.com/stretchr/testify/assert"
)

func TestNewHistogramReportSortsByCoreThenCountDesc(t *testing.T) {
	h := trace.NewHistogram(nil)
	h.Record(1, 0x2000)
	h.Record(0, 0x1000)
	h.Record(0, 0x1004)
	h.Record(0, 0x1000)

	report := newHistogramReport(h, 0)
	assert.Equal(t, uint64(4), report.Total)
	assert.Len(t, report.Samples, 3)
	assert.Equal(t, 0, report.Samples[0].CoreID)
	assert.Equal(t, uint64(0x1000), report.Samples[0].PC)
	assert.Equal(t, uint64(2), report.Samples[0].Count)
	assert.Equal(t, 1, report.Samples[2].CoreID)
}

func TestNewHistogramReportTopLimitsPerCore(t *testing.T) {
	h := trace.NewHistogram(nil)
	h.Record(0, 0x1000)
	h.Record(0, 0x1004)
	h.Record(0, 0x1000)
	h.Record(0, 0x1008)

	report := newHistogramReport(h, 1)
	assert.Len(t, report.Samples, 1)
	assert.Equal(t, uint64(0x1000), report.Samples[0].PC)
}

func TestHistogramReportRowsFormatPCAsHex(t *testing.T) {
	report := histogramReport{Samples: []trace.Sample{{CoreID: 0, PC: 0x1000, Count: 3}}}
	rows := report.Rows()
	assert.Equal(t, [][]string{{"0", "0x00001000", "3"}}, rows)
	assert.Equal(t, []string{"Core", "PC", "Count"}, report.Headers())
}
