package config

import (
	"strings"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/bytesize"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/engine"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/trace"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields. Called after loading configuration from file and environment so
// that an empty/partial file still yields a fully usable Config.
func ApplyDefaults(cfg *Config) {
	applyTargetDefaults(&cfg.Target)
	applyDecoderDefaults(&cfg.Decoder)
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
}

func applyTargetDefaults(cfg *TargetConfig) {
	if cfg.AddrBits == 0 {
		cfg.AddrBits = 32
	}
	if cfg.TSBits == 0 {
		cfg.TSBits = 40
	}
	if cfg.XLen == 0 {
		cfg.XLen = 32
	}
	// SrcBits and FrequencyHz default to zero: single-core, frequency
	// unknown (only needed by the out-of-scope performance-counter path).
}

func applyDecoderDefaults(cfg *DecoderConfig) {
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = 64 * bytesize.MiB
	}
	if cfg.ReturnStackCapacity == 0 {
		cfg.ReturnStackCapacity = engine.DefaultReturnStackCapacity
	}
	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = trace.UpdateInterval
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// GetDefaultConfig returns a Config with every field set to its default
// value and no target ELF configured — callers must set Paths.ELFPath
// themselves before decoding.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
