// Package capture reads and writes the on-disk capture-file envelope: a
// small XDR-encoded header (format version, core count, the bit widths
// needed to parse the trace without out-of-band configuration) followed by
// the raw Nexus byte stream, so a capture can be replayed without the
// original target's config file (spec §6, "Companion file format").
//
// XDR is the teacher's wire-envelope format of choice (internal/protocol/
// nfs's request/response structs); we reuse it here for the same reason it
// fits there: a small, self-describing, endian-independent binary struct
// tag format with an existing, well-tested Go implementation.
package capture

import (
	"bytes"
	"fmt"
	"io"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// FormatVersion is bumped whenever Header's wire layout changes.
const FormatVersion = 1

// Header precedes the raw Nexus byte stream in a capture file.
type Header struct {
	Version    uint32
	CoreCount  uint32
	SrcBits    uint32
	AddrBits   uint32
	TSBits     uint32
	TargetFreq uint64
}

// WriteHeader XDR-encodes hdr to w.
func WriteHeader(w io.Writer, hdr Header) error {
	hdr.Version = FormatVersion
	if _, err := xdr.Marshal(w, &hdr); err != nil {
		return fmt.Errorf("capture: encode header: %w", err)
	}
	return nil
}

// ReadHeader decodes a Header from the start of r. On success r is left
// positioned immediately after the header, at the start of the raw Nexus
// byte stream.
func ReadHeader(r io.Reader) (Header, error) {
	var hdr Header
	if _, err := xdr.Unmarshal(r, &hdr); err != nil {
		return Header{}, fmt.Errorf("capture: decode header: %w", err)
	}
	if hdr.Version != FormatVersion {
		return Header{}, fmt.Errorf("capture: unsupported format version %d (want %d)", hdr.Version, FormatVersion)
	}
	return hdr, nil
}

// EncodeHeader is a convenience wrapper returning the header's wire bytes,
// for callers assembling a capture file in memory before writing it.
func EncodeHeader(hdr Header) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteHeader(&buf, hdr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
