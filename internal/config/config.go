// Package config loads nxtrace's construction-time configuration: the
// per-deployment bit widths and paths the decoder is immutable over once
// built (spec §6, "Persisted state: none inside the core. Configuration...
// is injected once at construction"). It follows the teacher's layered
// viper setup (pkg/config in the reference project) scaled down to this
// tool's settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/bytesize"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the immutable configuration a Decoder is built from.
//
// Configuration sources, in order of precedence:
//  1. CLI flags (bound by cmd/nxtrace)
//  2. Environment variables (NXTRACE_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Target describes the bit widths and clock of the traced part (spec
	// §6, "Persisted state").
	Target TargetConfig `mapstructure:"target" yaml:"target"`

	// Decoder tunes the decode pipeline itself: buffering, stack depth,
	// progress cadence.
	Decoder DecoderConfig `mapstructure:"decoder" yaml:"decoder"`

	// Paths locates the external collaborators the core calls into
	// (spec §1, "Out of scope" / §6 "ELF consumption").
	Paths PathsConfig `mapstructure:"paths" yaml:"paths"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Metrics contains Prometheus metrics server configuration.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// TargetConfig captures the per-deployment bit widths the parser and
// reconstruction state machine need but which the Nexus wire format does
// not self-describe (spec §4.2 "src_bits?", §4.5 timestamp reconstruction).
type TargetConfig struct {
	// SrcBits is the width, in bits, of the per-message core-id field.
	// Zero means single-core (spec §4.2).
	SrcBits int `mapstructure:"src_bits" yaml:"src_bits"`

	// AddrBits is the address width in bits, before the right-shift-by-one
	// instruction-alignment encoding (spec §3 invariants).
	AddrBits int `mapstructure:"addr_bits" yaml:"addr_bits"`

	// TSBits is the timestamp field width in bits, used to compute the
	// wrap mask during timestamp reconstruction (spec §4.5).
	TSBits int `mapstructure:"ts_bits" yaml:"ts_bits"`

	// FrequencyHz is the target's trace clock frequency, used only by the
	// (out-of-scope) performance-counter conversion path; carried here so
	// a full deployment can still report it.
	FrequencyHz uint64 `mapstructure:"frequency_hz" yaml:"frequency_hz"`

	// XLen is the target's register width: 32 or 64. Overrides the ELF
	// class detected by pkg/elf when nonzero.
	XLen int `mapstructure:"xlen" yaml:"xlen"`
}

// DecoderConfig tunes the decode pipeline's internal policy knobs, all of
// which spec §9 calls out as non-normative ("policy knob, not a
// correctness requirement").
type DecoderConfig struct {
	// QueueCapacity is the configured byte queue capacity. Accepts
	// human-readable sizes like "64MiB" (internal/bytesize). The decode
	// pipeline does not read it: pkg/queue.Queue grows without a cap.
	QueueCapacity bytesize.ByteSize `mapstructure:"queue_capacity" yaml:"queue_capacity"`

	// ReturnStackCapacity is the per-core return-address stack depth
	// (spec §4.3, default 2048).
	ReturnStackCapacity int `mapstructure:"return_stack_capacity" yaml:"return_stack_capacity"`

	// UpdateInterval is the configured number of retired instructions
	// between progress callbacks (spec §4.6, default 1,000,000). The decode
	// pipeline does not read it: pkg/trace.Histogram always uses the
	// trace.UpdateInterval constant.
	UpdateInterval uint64 `mapstructure:"update_interval" yaml:"update_interval"`

	// AnalyticsEnabled turns on per-TCODE message/byte-count collection in the
	// parser (spec §4.2 "Side effects", optional).
	AnalyticsEnabled bool `mapstructure:"analytics_enabled" yaml:"analytics_enabled"`
}

// PathsConfig locates the ELF image and, optionally, an objdump binary used
// by the (out-of-scope) source-line rendering path.
type PathsConfig struct {
	// ELFPath is the target executable the Disassembler reads from.
	ELFPath string `mapstructure:"elf_path" yaml:"elf_path"`

	// ObjdumpPath is the objdump binary used for source-line annotation.
	// Empty disables source-line rendering; the core decode path never
	// needs it.
	ObjdumpPath string `mapstructure:"objdump_path" yaml:"objdump_path"`

	// PathTranslations rewrites source-file prefixes recorded in the ELF
	// debug info to local filesystem paths, e.g. when a trace was
	// captured on one machine and is being rendered on another.
	PathTranslations []PathTranslation `mapstructure:"path_translations" yaml:"path_translations"`
}

// PathTranslation maps a recorded source-file prefix to a local one.
type PathTranslation struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to" yaml:"to"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output: DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level" yaml:"level"`

	// Format specifies the log output format: text or json.
	Format string `mapstructure:"format" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file
	// path.
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and the HTTP server are
	// enabled.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port for the metrics endpoint.
	Port int `mapstructure:"port" yaml:"port"`
}

// envPrefix is the environment variable prefix for all nxtrace settings
// (e.g. NXTRACE_TARGET_ADDR_BITS).
const envPrefix = "NXTRACE"

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (NXTRACE_*)
//  2. Configuration file
//  3. Default values
//
// Environment variables only override keys that appear in the config file.
// When no config file is found, Load returns GetDefaultConfig() and does
// not read the environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration, returning a user-facing error with setup
// instructions when no config file exists at the resolved path.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"initialize one first:\n  nxtrace config init\n\n"+
				"or point at an existing file:\n  nxtrace decode --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, creating parent directories as
// needed.
func SaveConfig(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: read file: %w", err)
	}
	return true, nil
}

func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
	)
}

// byteSizeDecodeHook converts strings and numbers to bytesize.ByteSize so
// config files can use human-readable sizes like "64MB" or "1Gi".
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory: $XDG_CONFIG_HOME/nxtrace
// if set, otherwise ~/.config/nxtrace, falling back to "." if the home
// directory cannot be determined.
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "nxtrace")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "nxtrace")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}
