package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for DecodeContext in context.Context
var logContextKey = contextKey{}

// DecodeContext holds stream-scoped logging context: which core and which
// part of the reconstruction pipeline a log line belongs to.
type DecodeContext struct {
	StreamID  string    // identifies the byte stream being decoded (file path, socket, etc.)
	CoreID    int       // core the current message/state belongs to, -1 if not yet known
	TCODE     string    // name of the TCODE currently being processed
	State     string    // current core state machine state
	StartTime time.Time // for duration calculation
}

// WithContext returns a new context with the given DecodeContext.
func WithContext(ctx context.Context, dc *DecodeContext) context.Context {
	return context.WithValue(ctx, logContextKey, dc)
}

// FromContext retrieves the DecodeContext from context, or nil if not present.
func FromContext(ctx context.Context) *DecodeContext {
	if ctx == nil {
		return nil
	}
	dc, _ := ctx.Value(logContextKey).(*DecodeContext)
	return dc
}

// NewDecodeContext creates a new DecodeContext for the given stream.
func NewDecodeContext(streamID string) *DecodeContext {
	return &DecodeContext{
		StreamID:  streamID,
		CoreID:    -1,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the DecodeContext.
func (dc *DecodeContext) Clone() *DecodeContext {
	if dc == nil {
		return nil
	}
	return &DecodeContext{
		StreamID:  dc.StreamID,
		CoreID:    dc.CoreID,
		TCODE:     dc.TCODE,
		State:     dc.State,
		StartTime: dc.StartTime,
	}
}

// WithCore returns a copy with the core ID set.
func (dc *DecodeContext) WithCore(coreID int) *DecodeContext {
	clone := dc.Clone()
	if clone != nil {
		clone.CoreID = coreID
	}
	return clone
}

// WithTCODE returns a copy with the current TCODE name set.
func (dc *DecodeContext) WithTCODE(tcode string) *DecodeContext {
	clone := dc.Clone()
	if clone != nil {
		clone.TCODE = tcode
	}
	return clone
}

// WithState returns a copy with the current state machine state set.
func (dc *DecodeContext) WithState(state string) *DecodeContext {
	clone := dc.Clone()
	if clone != nil {
		clone.State = state
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds.
func (dc *DecodeContext) DurationMs() float64 {
	if dc == nil || dc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(dc.StartTime).Microseconds()) / 1000.0
}
