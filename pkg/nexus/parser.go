package nexus

// ByteSource is the minimal pull interface Parser needs from a byte queue:
// one byte at a time, plus a way to tell "no bytes right now" apart from
// "no bytes ever again". pkg/queue.Queue satisfies this.
type ByteSource interface {
	Pop() (b byte, ok bool)
	EndOfData() bool
}

// Config tunes per-stream parsing parameters that are not carried on the
// wire itself.
type Config struct {
	// SrcBits is the width of the per-message core-id field (spec §4.4).
	// Zero disables source routing (single-core trace).
	SrcBits int
}

// Parser turns a raw Nexus byte stream into a sequence of Messages. It
// holds no per-core decode state (that belongs to pkg/trace); it is purely
// the bit-framing and field-layout layer.
//
// A Parser is not safe for concurrent use; like the SliceFileParser it is
// modeled on, it is meant to be driven by a single consumer goroutine while
// a separate producer goroutine feeds its backing queue (spec §4.1, §5).
type Parser struct {
	src       ByteSource
	cfg       Config
	pending   []byte
	resynced  bool
	analytics *Analytics
}

// NewParser creates a Parser reading from src.
func NewParser(src ByteSource, cfg Config) *Parser {
	return &Parser{src: src, cfg: cfg}
}

// SetAnalytics attaches an optional per-TCODE/byte-count collector. A nil
// Analytics (the default) disables collection with no extra branching cost
// beyond a nil check.
func (p *Parser) SetAnalytics(a *Analytics) {
	p.analytics = a
}

// ReadNextMessage pulls bytes from the source and returns the next complete
// message. It returns ErrNeedMoreBytes if the source is temporarily
// exhausted (the caller should push more data and retry), ErrEndOfStream if
// the source is permanently exhausted with no message in flight, or
// ErrMalformed if a complete message failed to decode — in which case the
// parser resynchronizes: the next call discards bytes up to and including
// the next MSEO_END, so the message after the malformed one is dropped too.
func (p *Parser) ReadNextMessage() (Message, error) {
	for {
		b, ok := p.src.Pop()
		if !ok {
			if p.src.EndOfData() {
				return Message{}, ErrEndOfStream
			}
			return Message{}, ErrNeedMoreBytes
		}

		trailer := b & 0x3
		p.pending = append(p.pending, b)

		if !p.resynced {
			if trailer == mseoMsgEnd {
				p.resynced = true
				p.pending = p.pending[:0]
			}
			continue
		}

		if trailer != mseoMsgEnd {
			continue
		}

		raw := p.pending
		p.pending = nil

		msg, err := decode(raw, p.cfg.SrcBits)
		if p.analytics != nil {
			p.analytics.record(msg.TCode, len(raw), err == nil)
		}
		if err != nil {
			p.resynced = false
			return Message{}, err
		}
		return msg, nil
	}
}

// Reset discards any in-flight partial message and forces resynchronization
// on the next MSEO_END, as the reconstruction state machine does after a
// fatal error (spec §7).
func (p *Parser) Reset() {
	p.pending = nil
	p.resynced = false
}
