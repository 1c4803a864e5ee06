package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/bufpool"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/queue"
)

// Sink is the minimal push interface Reader feeds; pkg/queue.Queue
// satisfies it directly.
type Sink interface {
	Push(data []byte) error
	SetEndOfData()
}

// Reader opens a capture file, decodes its Header, and replays the raw
// Nexus byte stream that follows into a Sink a decoder reads from. This is
// the "companion file reader" spec §6 describes as mmap-ing a pre-recorded
// capture and pushing its bytes; we use a plain buffered read instead of
// mmap since nothing in the retrieval pack's stack reaches for syscall-level
// mmap outside test fixtures.
type Reader struct {
	f      *os.File
	Header Header
}

// Open opens path, decodes its Header, and positions the file for
// streaming the remaining Nexus bytes via Feed.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", path, err)
	}
	hdr, err := ReadHeader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Reader{f: f, Header: hdr}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Feed drains the capture's raw Nexus byte stream into sink in
// bufpool-sized chunks, marking end-of-data once the file is exhausted.
// It is meant to run on the producer side of the queue's single-producer/
// single-consumer contract (spec §4.1); callers typically run it in its
// own goroutine while a decoder drains the same Sink concurrently.
func (r *Reader) Feed(sink Sink) error {
	defer sink.SetEndOfData()

	buf := bufpool.Get(bufpool.DefaultMediumSize)
	defer bufpool.Put(buf)

	for {
		n, err := r.f.Read(buf)
		if n > 0 {
			if pushErr := sink.Push(buf[:n]); pushErr != nil {
				return fmt.Errorf("capture: feed: %w", pushErr)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("capture: read: %w", err)
		}
	}
}

var _ Sink = (*queue.Queue)(nil)
