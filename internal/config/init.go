package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// sampleConfig is the scaffolded configuration file written by InitConfig /
// InitConfigToPath. It documents every section with comments the way the
// teacher project's generated config does, so a fresh checkout is
// self-explanatory without consulting documentation.
const sampleConfig = `# nxtrace Configuration File
#
# This file configures the Nexus trace decoder and profiler. Settings here
# are construction-time only: the decoder never mutates or persists its
# own configuration (spec §6).
#
# Configuration precedence (highest to lowest):
#   1. Environment variables (NXTRACE_<SECTION>_<KEY>, e.g. NXTRACE_TARGET_ADDR_BITS)
#   2. This file
#   3. Built-in defaults

target:
  # Width in bits of the per-message core-id field. 0 means single-core.
  src_bits: 0
  # Address width in bits (before the right-shift-by-one wire encoding).
  addr_bits: 32
  # Timestamp field width in bits, used for wrap detection.
  ts_bits: 40
  # Target trace clock frequency in Hz (only used by performance-counter
  # conversion, out of scope for this decoder).
  frequency_hz: 0
  # Target register width: 32 or 64.
  xlen: 32

decoder:
  # Byte queue capacity. Accepts human-readable sizes: "64MB", "1Gi", or a
  # plain byte count. The decoder does not apply it; the queue grows as needed.
  queue_capacity: 64MiB
  # Per-core return-address prediction stack depth.
  return_stack_capacity: 2048
  # Instructions retired between progress callbacks. The decoder does not
  # apply it; callbacks always fire every 1000000 instructions.
  update_interval: 1000000
  # Collect per-TCODE message/byte counters (spec §4.2 "Side effects").
  analytics_enabled: true

paths:
  # Path to the target ELF executable. Required before decoding.
  elf_path: ""
  # Path to an objdump binary for source-line annotation (optional).
  objdump_path: ""
  path_translations: []

logging:
  level: INFO
  format: text
  output: stdout

metrics:
  enabled: false
  port: 9090
`

// InitConfig writes the scaffolded default configuration file to the
// default location ($XDG_CONFIG_HOME/nxtrace/config.yaml), returning the
// path it wrote to. It fails if a file already exists there unless force
// is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes the scaffolded default configuration file to
// path, failing if one already exists unless force is true.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}
	return nil
}
