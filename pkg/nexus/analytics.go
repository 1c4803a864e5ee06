package nexus

// Analytics accumulates per-TCODE message and byte counts, mirroring the
// reference decoder's ProfilerAnalytics. It is optional: a Parser with no
// Analytics attached skips collection entirely. Ownership sits with
// whichever decoder loop constructs the Parser (spec §9's note that the
// reference's mutual Parser/Analytics ownership cycle doesn't translate to
// Go and is flattened to single ownership here).
type Analytics struct {
	counts      [64]uint64
	bytes       [64]uint64
	malformed   uint64
	totalBytes  uint64
	totalMsgs   uint64
}

// NewAnalytics returns an empty Analytics collector.
func NewAnalytics() *Analytics {
	return &Analytics{}
}

func (a *Analytics) record(tcode TCODE, wireBytes int, ok bool) {
	if !ok {
		a.malformed++
		return
	}
	a.counts[tcode&0x3f]++
	a.bytes[tcode&0x3f] += uint64(wireBytes)
	a.totalMsgs++
	a.totalBytes += uint64(wireBytes)
}

// Count returns the number of successfully decoded messages seen for tcode.
func (a *Analytics) Count(tcode TCODE) uint64 {
	return a.counts[tcode&0x3f]
}

// Bytes returns the total wire bytes attributed to tcode.
func (a *Analytics) Bytes(tcode TCODE) uint64 {
	return a.bytes[tcode&0x3f]
}

// Malformed returns the number of messages that failed to decode.
func (a *Analytics) Malformed() uint64 {
	return a.malformed
}

// Totals returns the aggregate message and byte counts across all TCODEs.
func (a *Analytics) Totals() (messages, bytes uint64) {
	return a.totalMsgs, a.totalBytes
}
