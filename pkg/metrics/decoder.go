package metrics

import "time"

// DecoderMetrics is the metrics contract the trace decode pipeline reports
// through. A nil DecoderMetrics is always safe to call methods on — every
// method defined here has a package-level wrapper (below) that no-ops on a
// nil receiver, the same pattern pkg/metrics.ObserveWrite uses for
// cache.CacheMetrics in the teacher project.
type DecoderMetrics interface {
	// ObserveMessage records one successfully decoded Nexus message of the
	// given TCODE name and wire size.
	ObserveMessage(tcode string, wireBytes int)
	// ObserveMalformed records one message the parser failed to decode.
	ObserveMalformed()
	// ObserveRetired records n instructions retired on coreID.
	ObserveRetired(coreID int, n int)
	// ObserveCoreError records a core entering StateError for the given
	// reason (e.g. "unexpected_message", "fetch_failed").
	ObserveCoreError(coreID int, reason string)
	// RecordQueueDepth reports the byte queue's current unread length.
	RecordQueueDepth(n int)
	// RecordHistogramSize reports the number of distinct (core, pc) pairs
	// currently tracked.
	RecordHistogramSize(n int)
	// ObserveProgressCallback records one histogram progress callback and
	// how long the consumer took to process it.
	ObserveProgressCallback(duration time.Duration, final bool)
}

// newPrometheusDecoderMetrics is populated by pkg/metrics/prometheus's
// init() via RegisterDecoderMetricsConstructor. The indirection keeps the
// concrete collectors out of this package (which imports prometheus only for
// the shared registry in registry.go) while still letting cmd/nxtrace opt
// into the concrete implementation just by importing the prometheus
// subpackage for its side effect.
var newPrometheusDecoderMetrics func() DecoderMetrics

// RegisterDecoderMetricsConstructor is called by
// pkg/metrics/prometheus.init() to install the concrete constructor.
func RegisterDecoderMetricsConstructor(constructor func() DecoderMetrics) {
	newPrometheusDecoderMetrics = constructor
}

// NewDecoderMetrics returns a Prometheus-backed DecoderMetrics, or nil if
// metrics are disabled (IsEnabled() == false) or no implementation has been
// registered. Callers pass the nil interface straight through to
// pkg/trace.Decoder, which treats it as "metrics off".
func NewDecoderMetrics() DecoderMetrics {
	if !IsEnabled() || newPrometheusDecoderMetrics == nil {
		return nil
	}
	return newPrometheusDecoderMetrics()
}

// ObserveMessage is a nil-safe wrapper around DecoderMetrics.ObserveMessage.
func ObserveMessage(m DecoderMetrics, tcode string, wireBytes int) {
	if m != nil {
		m.ObserveMessage(tcode, wireBytes)
	}
}

// ObserveMalformed is a nil-safe wrapper around
// DecoderMetrics.ObserveMalformed.
func ObserveMalformed(m DecoderMetrics) {
	if m != nil {
		m.ObserveMalformed()
	}
}

// ObserveRetired is a nil-safe wrapper around DecoderMetrics.ObserveRetired.
func ObserveRetired(m DecoderMetrics, coreID, n int) {
	if m != nil {
		m.ObserveRetired(coreID, n)
	}
}

// ObserveCoreError is a nil-safe wrapper around
// DecoderMetrics.ObserveCoreError.
func ObserveCoreError(m DecoderMetrics, coreID int, reason string) {
	if m != nil {
		m.ObserveCoreError(coreID, reason)
	}
}

// RecordQueueDepth is a nil-safe wrapper around
// DecoderMetrics.RecordQueueDepth.
func RecordQueueDepth(m DecoderMetrics, n int) {
	if m != nil {
		m.RecordQueueDepth(n)
	}
}

// RecordHistogramSize is a nil-safe wrapper around
// DecoderMetrics.RecordHistogramSize.
func RecordHistogramSize(m DecoderMetrics, n int) {
	if m != nil {
		m.RecordHistogramSize(n)
	}
}

// ObserveProgressCallback is a nil-safe wrapper around
// DecoderMetrics.ObserveProgressCallback.
func ObserveProgressCallback(m DecoderMetrics, d time.Duration, final bool) {
	if m != nil {
		m.ObserveProgressCallback(d, final)
	}
}
