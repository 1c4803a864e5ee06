// Package queue implements the growable, single-producer/single-consumer
// byte stream the trace decoder reads from. It is modeled directly on the
// reference decoder's SliceFileParser buffering: a byte buffer guarded by
// one mutex, and a separate end-of-data flag guarded by a second mutex, so
// a writer signaling "no more data" never has to contend with an in-flight
// buffer push (spec §4.1).
package queue

import (
	"errors"
	"sync"
)

// ErrNilBuffer is returned by Push when handed a nil slice.
var ErrNilBuffer = errors.New("queue: nil buffer")

// Queue is a growable byte FIFO fed by Push and drained one byte at a time
// by Pop. It is safe for one producer goroutine and one consumer goroutine
// to use concurrently; it is not safe for multiple producers or multiple
// consumers.
type Queue struct {
	bufMu sync.Mutex
	buf   []byte
	head  int

	eodMu sync.Mutex
	eod   bool
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Push appends data to the queue. It copies the input so the caller's
// buffer may be reused or recycled (e.g. returned to a bufpool)
// immediately after the call returns.
func (q *Queue) Push(data []byte) error {
	if data == nil {
		return ErrNilBuffer
	}
	if len(data) == 0 {
		return nil
	}
	q.bufMu.Lock()
	q.buf = append(q.buf, data...)
	q.bufMu.Unlock()
	return nil
}

// Pop removes and returns the oldest byte. ok is false if the queue is
// currently empty; the caller should check EndOfData to tell "drained but
// more is coming" apart from "drained for good".
func (q *Queue) Pop() (b byte, ok bool) {
	q.bufMu.Lock()
	defer q.bufMu.Unlock()
	if q.head >= len(q.buf) {
		return 0, false
	}
	b = q.buf[q.head]
	q.head++
	// Reclaim the consumed prefix once it dominates the backing array, so
	// a long-lived stream doesn't grow the slice unbounded.
	if q.head > 4096 && q.head*2 > len(q.buf) {
		remaining := len(q.buf) - q.head
		copy(q.buf, q.buf[q.head:])
		q.buf = q.buf[:remaining]
		q.head = 0
	}
	return b, true
}

// Len reports the number of unread bytes currently buffered.
func (q *Queue) Len() int {
	q.bufMu.Lock()
	defer q.bufMu.Unlock()
	return len(q.buf) - q.head
}

// SetEndOfData marks the stream as permanently exhausted: no further Push
// calls will occur. Safe to call once the producer has finished; calling it
// more than once is harmless.
func (q *Queue) SetEndOfData() {
	q.eodMu.Lock()
	q.eod = true
	q.eodMu.Unlock()
}

// EndOfData reports whether SetEndOfData has been called.
func (q *Queue) EndOfData() bool {
	q.eodMu.Lock()
	defer q.eodMu.Unlock()
	return q.eod
}
