package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderFeedsHeaderAndPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.cap")

	payload := []byte{0x01, 0x02, 0x03, 0x04}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteHeader(f, Header{CoreCount: 2, SrcBits: 1, AddrBits: 32, TSBits: 40}))
	_, err = f.Write(payload)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, uint32(2), r.Header.CoreCount)
	assert.Equal(t, uint32(1), r.Header.SrcBits)

	q := queue.New()
	require.NoError(t, r.Feed(q))
	assert.True(t, q.EndOfData())
	assert.Equal(t, len(payload), q.Len())

	for _, want := range payload {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestOpenRejectsMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.cap"))
	assert.Error(t, err)
}
