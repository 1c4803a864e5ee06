package logger

import (
	"log/slog"
)

// Standard field keys for structured logging across the decoder pipeline.
// Use these keys consistently so log lines can be aggregated and queried
// regardless of which stage (parser, state machine, histogram) emitted them.
const (
	// ========================================================================
	// Stream identification
	// ========================================================================
	KeyStreamID = "stream_id" // identifies the byte stream being decoded
	KeyCoreID   = "core_id"   // hardware core index (0..15)

	// ========================================================================
	// Message & TCODE
	// ========================================================================
	KeyTCODE       = "tcode"        // Nexus message type code name
	KeyState       = "state"        // core state machine state
	KeySyncReason  = "sync_reason"  // sync/WS reason code
	KeyBType       = "b_type"       // indirect branch type
	KeyHaveTS      = "have_ts"      // message carried a timestamp
	KeyMessageSize = "message_size" // decoded message size in bits

	// ========================================================================
	// Replay / PC reconstruction
	// ========================================================================
	KeyPC         = "pc"          // reconstructed program counter
	KeyICnt       = "i_cnt"       // half-instruction count
	KeyHistBits   = "hist_bits"   // remaining history bits
	KeyReturnSize = "return_size" // current depth of the return-address stack
	KeyBranchFlag = "branch_flag" // resolved branch direction

	// ========================================================================
	// Byte queue & parser
	// ========================================================================
	KeyBytesProcessed = "bytes_processed" // cumulative bytes consumed from the queue
	KeyQueueDepth     = "queue_depth"     // bytes currently buffered
	KeyEndOfData      = "end_of_data"     // producer signaled end of stream

	// ========================================================================
	// Histogram / profiling
	// ========================================================================
	KeyInstructionsRetired = "instructions_retired" // cumulative retired instruction count
	KeyHistogramSize       = "histogram_size"       // distinct addresses tallied

	// ========================================================================
	// Operation metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyErrorCode  = "error_code"  // numeric status code
)

// StreamID returns a slog.Attr for the stream identifier.
func StreamID(id string) slog.Attr {
	return slog.String(KeyStreamID, id)
}

// CoreID returns a slog.Attr for the hardware core index.
func CoreID(id int) slog.Attr {
	return slog.Int(KeyCoreID, id)
}

// TCODE returns a slog.Attr for the Nexus message type name.
func TCODE(name string) slog.Attr {
	return slog.String(KeyTCODE, name)
}

// State returns a slog.Attr for the core state machine state.
func State(state string) slog.Attr {
	return slog.String(KeyState, state)
}

// SyncReason returns a slog.Attr for a sync/WS reason code.
func SyncReason(reason string) slog.Attr {
	return slog.String(KeySyncReason, reason)
}

// BType returns a slog.Attr for an indirect branch type.
func BType(bt string) slog.Attr {
	return slog.String(KeyBType, bt)
}

// HaveTimestamp returns a slog.Attr indicating whether a message carried a timestamp.
func HaveTimestamp(have bool) slog.Attr {
	return slog.Bool(KeyHaveTS, have)
}

// MessageSize returns a slog.Attr for decoded message size, in bits.
func MessageSize(bits int) slog.Attr {
	return slog.Int(KeyMessageSize, bits)
}

// PC returns a slog.Attr for a reconstructed program counter.
func PC(addr uint64) slog.Attr {
	return slog.Uint64(KeyPC, addr)
}

// ICnt returns a slog.Attr for a half-instruction count.
func ICnt(n uint32) slog.Attr {
	return slog.Any(KeyICnt, n)
}

// HistBits returns a slog.Attr for the remaining history bit count.
func HistBits(n int) slog.Attr {
	return slog.Int(KeyHistBits, n)
}

// ReturnSize returns a slog.Attr for the current return-stack depth.
func ReturnSize(n int) slog.Attr {
	return slog.Int(KeyReturnSize, n)
}

// BranchFlag returns a slog.Attr for a resolved branch direction.
func BranchFlag(flag string) slog.Attr {
	return slog.String(KeyBranchFlag, flag)
}

// BytesProcessed returns a slog.Attr for cumulative bytes consumed.
func BytesProcessed(n uint64) slog.Attr {
	return slog.Uint64(KeyBytesProcessed, n)
}

// QueueDepth returns a slog.Attr for bytes currently buffered.
func QueueDepth(n int) slog.Attr {
	return slog.Int(KeyQueueDepth, n)
}

// EndOfData returns a slog.Attr indicating the producer signaled end of stream.
func EndOfData(eod bool) slog.Attr {
	return slog.Bool(KeyEndOfData, eod)
}

// InstructionsRetired returns a slog.Attr for cumulative retired instructions.
func InstructionsRetired(n uint64) slog.Attr {
	return slog.Uint64(KeyInstructionsRetired, n)
}

// HistogramSize returns a slog.Attr for the number of distinct addresses tallied.
func HistogramSize(n int) slog.Attr {
	return slog.Int(KeyHistogramSize, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric status code.
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}
