// Command nxtrace decodes a Nexus (IEEE-ISTO 5001) trace stream against an
// ELF image and reports a per-core instruction retirement histogram.
package main

import (
	"fmt"
	"os"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/cmd/nxtrace/commands"

	// Imported for its init() side effect, which registers the Prometheus
	// DecoderMetrics constructor pkg/metrics dispatches to.
	_ "github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/metrics/prometheus"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
