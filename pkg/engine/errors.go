package engine

import "errors"

var (
	// ErrCountUnderflow is returned when a consume call asks for more than
	// the loaded count holds (e.g. ConsumeICnt with n greater than the
	// remaining i_cnt). A consume call against a core in KindNone returns
	// ErrWrongKind instead.
	ErrCountUnderflow = errors.New("engine: count underflow")

	// ErrWrongKind is returned when a consume call doesn't match the count
	// kind currently loaded for the core (e.g. consuming history while the
	// loaded kind is taken). Per spec §7.3, the caller should treat this as
	// a fatal state-machine invariant violation.
	ErrWrongKind = errors.New("engine: count kind mismatch")

	// ErrBadCore is returned for a core index outside [0, MaxCores).
	ErrBadCore = errors.New("engine: core index out of range")
)
