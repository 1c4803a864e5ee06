package trace

import "errors"

// ErrUnexpectedMessage is returned when a message cannot be applied in the
// core's current state (e.g. a count-bearing TCODE with no i_cnt, or an
// unpredictable indirect branch whose message carries no u_addr). The core
// drops into StateError and waits for resynchronization.
var ErrUnexpectedMessage = errors.New("trace: unexpected message for current state")

// ErrFetchFailed wraps a Disassembler error encountered mid-replay.
var ErrFetchFailed = errors.New("trace: instruction fetch failed")

// ErrNoBranchAtCount is returned when a message's count is exhausted
// without the replay having reached a branch-class instruction, which
// means the disassembly and the trace have diverged.
var ErrNoBranchAtCount = errors.New("trace: count exhausted without reaching a branch")
