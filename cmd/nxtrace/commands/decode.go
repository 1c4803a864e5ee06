package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/config"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/logger"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/output"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/capture"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/elf"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/metrics"
	prometheusmetrics "github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/metrics/prometheus"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/nexus"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/queue"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/trace"
	"github.com/spf13/cobra"
)

var (
	decodeIn     string
	decodeELF    string
	decodeOutput string
	decodeTop    int
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a Nexus capture against an ELF image and report a histogram",
	Long: `Decode replays a recorded Nexus trace capture (spec §6 capture-file
envelope) against the ELF image it was captured from, reconstructing the
retired program-counter sequence on every traced core and reporting the
resulting per-(core, pc) instruction histogram.

Examples:
  # Decode a capture, ELF path taken from the config file
  nxtrace decode --in trace.cap

  # Override the ELF path from the command line
  nxtrace decode --in trace.cap --elf build/firmware.elf

  # Report the top 20 hottest PCs as JSON
  nxtrace decode --in trace.cap --top 20 --output json`,
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&decodeIn, "in", "", "Path to the captured trace file (required)")
	decodeCmd.Flags().StringVar(&decodeELF, "elf", "", "Path to the ELF image (overrides paths.elf_path in config)")
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "table", "Output format (table|json|yaml)")
	decodeCmd.Flags().IntVar(&decodeTop, "top", 0, "Only report the N hottest PCs per core (0 = all)")
	_ = decodeCmd.MarkFlagRequired("in")
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	elfPath := cfg.Paths.ELFPath
	if decodeELF != "" {
		elfPath = decodeELF
	}
	if elfPath == "" {
		return fmt.Errorf("no ELF image given: set paths.elf_path in config or pass --elf")
	}

	disasm, err := elf.Open(elfPath)
	if err != nil {
		return err
	}
	disasm.SetXLen(cfg.Target.XLen)

	capFile, err := capture.Open(decodeIn)
	if err != nil {
		return err
	}
	defer func() { _ = capFile.Close() }()

	var flushAtByte uint64
	if hdrLen, err := capture.EncodeHeader(capFile.Header); err == nil {
		if st, statErr := os.Stat(decodeIn); statErr == nil && st.Size() > int64(len(hdrLen)) {
			flushAtByte = uint64(st.Size() - int64(len(hdrLen)))
		}
	}

	srcBits := cfg.Target.SrcBits
	if capFile.Header.SrcBits != 0 {
		srcBits = int(capFile.Header.SrcBits)
	}
	tsBits := cfg.Target.TSBits
	if capFile.Header.TSBits != 0 {
		tsBits = int(capFile.Header.TSBits)
	}

	q := queue.New()
	feedErr := make(chan error, 1)
	go func() { feedErr <- capFile.Feed(q) }()

	parser := nexus.NewParser(q, nexus.Config{SrcBits: srcBits})
	if cfg.Decoder.AnalyticsEnabled {
		parser.SetAnalytics(nexus.NewAnalytics())
	}

	metricsServer := setupMetrics(cfg)
	if metricsServer != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	decoder := trace.NewDecoder(parser, disasm, trace.Config{
		StackCapacity: cfg.Decoder.ReturnStackCapacity,
		TSBits:        tsBits,
		Metrics:       metrics.NewDecoderMetrics(),
		FlushAtByte:   flushAtByte,
	})

	ctx := context.Background()
	if err := drain(ctx, decoder); err != nil {
		return err
	}
	if err := <-feedErr; err != nil {
		return err
	}

	format, err := output.ParseFormat(decodeOutput)
	if err != nil {
		return err
	}
	return output.Print(os.Stdout, format, newHistogramReport(decoder.Histogram(), decodeTop))
}

// drain repeatedly calls decoder.Run until it reports end-of-stream
// (nil error) or a fatal error. ErrNeedMoreBytes means the capture's feed
// goroutine (spec §4.1's producer side) hasn't pushed the next chunk yet;
// decode is a batch job, so a short sleep is an acceptable busy-wait rather
// than adding a wake channel only this call site would use.
func drain(ctx context.Context, decoder *trace.Decoder) error {
	for {
		err := decoder.Run(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, nexus.ErrNeedMoreBytes) {
			time.Sleep(time.Millisecond)
			continue
		}
		return err
	}
}

func setupMetrics(cfg *config.Config) *prometheusmetrics.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}
	metrics.InitRegistry()
	server := prometheusmetrics.NewServer(cfg.Metrics.Port)
	server.Start()
	logger.Info("metrics server listening", "port", cfg.Metrics.Port)
	return server
}

// histogramReport adapts a Histogram snapshot to output.TableRenderer and
// to JSON/YAML marshaling.
type histogramReport struct {
	Total   uint64         `json:"total" yaml:"total"`
	Samples []trace.Sample `json:"samples" yaml:"samples"`
}

func newHistogramReport(h *trace.Histogram, top int) histogramReport {
	samples := h.Samples()
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].CoreID != samples[j].CoreID {
			return samples[i].CoreID < samples[j].CoreID
		}
		return samples[i].Count > samples[j].Count
	})
	if top > 0 {
		samples = topPerCore(samples, top)
	}
	return histogramReport{Total: h.Total(), Samples: samples}
}

// topPerCore keeps at most n samples per core from a slice already sorted
// by (core, count desc).
func topPerCore(samples []trace.Sample, n int) []trace.Sample {
	out := make([]trace.Sample, 0, len(samples))
	seen := 0
	core := -1
	for _, s := range samples {
		if s.CoreID != core {
			core = s.CoreID
			seen = 0
		}
		if seen < n {
			out = append(out, s)
			seen++
		}
	}
	return out
}

func (r histogramReport) Headers() []string {
	return []string{"Core", "PC", "Count"}
}

func (r histogramReport) Rows() [][]string {
	rows := make([][]string, 0, len(r.Samples))
	for _, s := range r.Samples {
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.CoreID),
			fmt.Sprintf("0x%08x", s.PC),
			fmt.Sprintf("%d", s.Count),
		})
	}
	return rows
}
