package nexus

import "errors"

// ErrNeedMoreBytes is returned by Parser.ReadNextMessage when the queue has
// been drained but the stream has not been marked ended; the caller should
// push more bytes and retry (spec §4.1/§4.2).
var ErrNeedMoreBytes = errors.New("nexus: need more bytes")

// ErrEndOfStream is returned once the queue is drained and the producer has
// signaled end-of-data with no further complete message pending.
var ErrEndOfStream = errors.New("nexus: end of stream")

// ErrMalformed wraps a decode failure inside an otherwise complete message
// (bad field, reserved TCODE, truncated fixed field). The parser
// resynchronizes on the next MSEO_END after returning this error.
var ErrMalformed = errors.New("nexus: malformed message")

// ErrNilSource names the nil-buffer condition for PushTraceData-style
// feeders (spec §4.1). Nothing in this module returns it: pkg/queue.Queue.Push
// reports a nil buffer as queue.ErrNilBuffer.
var ErrNilSource = errors.New("nexus: nil buffer")
