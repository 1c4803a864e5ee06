// Package trace drives the per-core program-counter reconstruction state
// machine and the instruction-address histogram it feeds (spec §4.5,
// §4.6). It is the layer that ties pkg/nexus (message framing), pkg/isa
// (instruction classification), pkg/engine (count and return-stack state)
// and pkg/elf (instruction fetch) together.
package trace

// State names the reconstruction state machine's position, mirroring the
// reference decoder's NextState (SyncCate -> GetFirstSyncMsg ->
// GetMsgWithCount -> GetNextInstruction -> RetireMessage -> GetNextMsg ->
// Done/Error).
type State int

const (
	// StateSyncCate is the initial state: the decoder has not yet seen a
	// Sync-class message and discards everything else.
	StateSyncCate State = iota
	// StateGetFirstSyncMsg has seen the stream boundary and is waiting
	// for the core's first Sync/`_WS` message to anchor its PC.
	StateGetFirstSyncMsg
	// StateGetMsgWithCount is the steady-state loop: each incoming
	// message carries a count (or a history) governing how many
	// instructions to retire before the next redirect.
	StateGetMsgWithCount
	// StateRetiring means the core is mid-replay of a message's
	// instruction run.
	StateRetiring
	// StateDone means the stream ended cleanly for this core.
	StateDone
	// StateError means the core hit an unrecoverable decode failure and
	// is waiting to be re-anchored by the next Sync/`_WS` message (spec
	// §7, lenient re-anchor).
	StateError
)

func (s State) String() string {
	switch s {
	case StateSyncCate:
		return "sync_cate"
	case StateGetFirstSyncMsg:
		return "get_first_sync_msg"
	case StateGetMsgWithCount:
		return "get_msg_with_count"
	case StateRetiring:
		return "retiring"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
