package nexus

// Message is a decoded Nexus message. Not every field is meaningful for
// every TCODE; the comments on each field group below say which TCODEs
// populate it. This
// mirrors the reference decoder's ProfilerNexusMessage, which is likewise a
// single flat struct switched on tcode rather than a Go-style sum type — we
// keep that shape because the state machine and histogram aggregator both
// need to inspect arbitrary combinations of fields without a type switch
// per call site.
type Message struct {
	TCode TCODE

	// Sync / ICT fields.
	SyncReason SyncReason
	ICTReason  ICTReason

	// Source/core routing. Present on every message except Debug-Status
	// and Error once the stream carries multi-core traces (spec §4.4).
	SrcID int

	// Address fields. FAddr is a full, already left-shifted-by-1
	// (alignment-recovered) target address, populated by Sync/`_WS`/
	// direct- and indirect-branch-with-sync messages. UAddr is an XOR
	// delta against the previous reconstructed address, populated by
	// plain indirect-branch and indirect-branch-history messages (spec
	// §4.4 "Address Reconstruction").
	HasFAddr bool
	FAddr    uint64
	HasUAddr bool
	UAddr    uint64

	// Count fields; at most one of these is populated per message (spec
	// §4.3 priority: history > taken > not_taken > i_cnt).
	HasICnt     bool
	ICnt        uint32
	HasHistory  bool
	History     uint64
	HistBits    int
	HasTaken    bool
	Taken       uint32
	HasNotTaken bool
	NotTaken    uint32

	// Resource-Full selects which of the above count fields applies via
	// RCode; for all other TCODEs the populated count field is implied
	// by the TCODE itself.
	RCode RCode

	BType BType

	// Timestamp, present when HaveTS. Full on sync-class messages,
	// relative (delta) otherwise (spec §4.4 "Timestamp Reconstruction").
	HaveTS  bool
	TSFull  bool
	TStamp  uint64

	// EVCode / error code, populated on Error messages.
	EVCode uint8

	// Raw byte length of the message as read off the wire, useful for
	// analytics and for the capture-file envelope.
	WireBytes int
}
