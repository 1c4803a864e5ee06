package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/config"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/capture"
	"github.com/spf13/cobra"
)

var (
	captureRaw       string
	captureOut       string
	captureCoreCount int
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Wrap a raw Nexus byte stream into a capture file",
	Long: `capture prefixes a raw Nexus trace byte stream (as collected off a debug
probe or trace sink, with no on-disk framing of its own) with the
capture-file envelope (spec §6, "Companion file format"): a small
XDR-encoded header recording the bit widths needed to parse it later,
so "nxtrace decode" can replay it without the original target's config.

Example:
  nxtrace capture --raw probe-dump.bin --out trace.cap --cores 2`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureRaw, "raw", "", "Path to the raw Nexus byte stream (required)")
	captureCmd.Flags().StringVar(&captureOut, "out", "", "Path to write the capture file to (required)")
	captureCmd.Flags().IntVar(&captureCoreCount, "cores", 1, "Number of traced cores")
	_ = captureCmd.MarkFlagRequired("raw")
	_ = captureCmd.MarkFlagRequired("out")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	raw, err := os.Open(captureRaw)
	if err != nil {
		return fmt.Errorf("capture: open raw stream: %w", err)
	}
	defer func() { _ = raw.Close() }()

	out, err := os.Create(captureOut)
	if err != nil {
		return fmt.Errorf("capture: create output: %w", err)
	}
	defer func() { _ = out.Close() }()

	hdr := capture.Header{
		CoreCount:  uint32(captureCoreCount),
		SrcBits:    uint32(cfg.Target.SrcBits),
		AddrBits:   uint32(cfg.Target.AddrBits),
		TSBits:     uint32(cfg.Target.TSBits),
		TargetFreq: cfg.Target.FrequencyHz,
	}
	if err := capture.WriteHeader(out, hdr); err != nil {
		return err
	}

	written, err := io.Copy(out, raw)
	if err != nil {
		return fmt.Errorf("capture: write payload: %w", err)
	}

	fmt.Printf("Wrote capture file %s (%d cores, %d payload bytes)\n", captureOut, captureCoreCount, written)
	return nil
}
