package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/logger"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/elf"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/engine"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/metrics"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/nexus"
)

// Source is what Decoder pulls messages from; pkg/nexus.Parser satisfies
// it directly.
type Source interface {
	ReadNextMessage() (nexus.Message, error)
}

// Decoder orchestrates the full pipeline for one trace stream: pull a
// message, route it to the owning core, replay its instructions, and feed
// every retirement into the shared Histogram. It is the Go analogue of the
// reference decoder's top-level per-file driving loop.
type Decoder struct {
	src       Source
	cores     map[int]*Core
	disasm    elf.Disassembler
	stackCap  int
	tsBits    int
	histogram *Histogram
	metrics   metrics.DecoderMetrics
}

// Config collects the knobs Decoder needs beyond the message source.
type Config struct {
	StackCapacity int
	// TSBits is the configured timestamp field width, used to detect wrap
	// when reconstructing last_time (spec §4.5). 0 disables wrap
	// adjustment.
	TSBits     int
	OnProgress ProgressFunc
	// Metrics is optional; a nil value disables metrics collection (spec
	// §1 out-of-scope "performance-counter conversion" aside, the
	// pipeline's own throughput/error counters are in scope as ambient
	// observability, not domain decode logic).
	Metrics metrics.DecoderMetrics
	// FlushAtByte arms the histogram's flush-data-offset sentinel (spec
	// §4.6); 0 leaves it disabled. Useful when the byte count of the
	// capture is known up front and progress must be reported exactly once
	// more at end-of-file even if the last UpdateInterval boundary wasn't
	// reached.
	FlushAtByte uint64
}

// NewDecoder creates a Decoder reading from src and fetching instructions
// via disasm. Cores are created lazily as new SrcIDs are observed on the
// stream (spec §4.4, multi-core routing).
func NewDecoder(src Source, disasm elf.Disassembler, cfg Config) *Decoder {
	d := &Decoder{
		src:      src,
		cores:    make(map[int]*Core),
		disasm:   disasm,
		stackCap: cfg.StackCapacity,
		tsBits:   cfg.TSBits,
		metrics:  cfg.Metrics,
	}
	onProgress := cfg.OnProgress
	d.histogram = NewHistogram(func(total uint64, bytesProcessed uint64, samples []Sample, final bool) {
		metrics.RecordHistogramSize(d.metrics, len(samples))
		start := time.Now()
		if onProgress != nil {
			onProgress(total, bytesProcessed, samples, final)
		}
		metrics.ObserveProgressCallback(d.metrics, time.Since(start), final)
	})
	if cfg.FlushAtByte != 0 {
		d.histogram.SetFlushAt(cfg.FlushAtByte)
	}
	return d
}

// Histogram returns the decoder's accumulating instruction histogram.
func (d *Decoder) Histogram() *Histogram {
	return d.histogram
}

func (d *Decoder) coreFor(srcID int) *Core {
	c, ok := d.cores[srcID]
	if !ok {
		counts := engine.New()
		c = NewCore(srcID, d.disasm, counts, d.stackCap, d.tsBits)
		d.cores[srcID] = c
	}
	return c
}

// Run drains messages from the source until ErrEndOfStream, recording
// every retired instruction into the histogram and flushing it on exit.
// ErrNeedMoreBytes is treated as "nothing to do right now" and returned to
// the caller so it can push more data and call Run again; any other error
// from an individual message is logged and treated as recoverable (the
// affected core moves to StateError and resynchronizes on its next
// Sync/`_WS`, per spec §7).
func (d *Decoder) Run(ctx context.Context) error {
	for {
		msg, err := d.src.ReadNextMessage()
		if err != nil {
			if errors.Is(err, nexus.ErrEndOfStream) {
				d.histogram.Flush()
				return nil
			}
			if errors.Is(err, nexus.ErrNeedMoreBytes) {
				return nexus.ErrNeedMoreBytes
			}
			if errors.Is(err, nexus.ErrMalformed) {
				logger.WarnCtx(ctx, "dropping malformed message", logger.Err(err))
				metrics.ObserveMalformed(d.metrics)
				continue
			}
			return fmt.Errorf("trace: read message: %w", err)
		}
		metrics.ObserveMessage(d.metrics, msg.TCode.String(), msg.WireBytes)
		d.histogram.AddBytes(uint64(msg.WireBytes))

		core := d.coreFor(msg.SrcID)

		retired, applyErr := core.Apply(msg)
		for _, r := range retired {
			d.histogram.Record(r.CoreID, r.PC)
		}
		metrics.ObserveRetired(d.metrics, msg.SrcID, len(retired))
		if applyErr != nil {
			dctx := logger.NewDecodeContext("").WithCore(msg.SrcID).WithTCODE(msg.TCode.String()).WithState(core.State().String())
			logger.WarnCtx(logger.WithContext(ctx, dctx), "core entered error state", logger.Err(applyErr))
			metrics.ObserveCoreError(d.metrics, msg.SrcID, core.State().String())
		}
	}
}
