// Package prometheus is the concrete Prometheus-backed implementation of
// pkg/metrics's DecoderMetrics contract. Importing it for its side effect
// (cmd/nxtrace does, via a blank import) registers the constructor that
// pkg/metrics.NewDecoderMetrics dispatches to; apart from pkg/metrics's
// shared registry, nothing else in this module imports prometheus directly.
package prometheus

import (
	"strconv"
	"time"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterDecoderMetricsConstructor(newDecoderMetrics)
}

type decoderMetrics struct {
	messagesTotal   *prometheus.CounterVec
	messageBytes    *prometheus.CounterVec
	malformedTotal  prometheus.Counter
	retiredTotal    *prometheus.CounterVec
	coreErrorsTotal *prometheus.CounterVec
	queueDepth      prometheus.Gauge
	histogramSize   prometheus.Gauge
	progressLatency *prometheus.HistogramVec
}

// newDecoderMetrics creates a Prometheus-backed DecoderMetrics instance.
// Returns nil if metrics are not enabled (metrics.InitRegistry not called).
func newDecoderMetrics() metrics.DecoderMetrics {
	if !metrics.IsEnabled() {
		return nil
	}
	reg := metrics.GetRegistry()

	return &decoderMetrics{
		messagesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nxtrace_messages_total",
				Help: "Total number of successfully decoded Nexus messages by TCODE",
			},
			[]string{"tcode"},
		),
		messageBytes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nxtrace_message_bytes_total",
				Help: "Total wire bytes consumed by decoded Nexus messages by TCODE",
			},
			[]string{"tcode"},
		),
		malformedTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "nxtrace_malformed_messages_total",
				Help: "Total number of messages that failed to decode and were resynchronized past",
			},
		),
		retiredTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nxtrace_instructions_retired_total",
				Help: "Total instructions retired by core",
			},
			[]string{"core"},
		),
		coreErrorsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nxtrace_core_errors_total",
				Help: "Total core state-machine errors by core and reason",
			},
			[]string{"core", "reason"},
		),
		queueDepth: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "nxtrace_queue_depth_bytes",
				Help: "Current unread byte count in the ingest queue",
			},
		),
		histogramSize: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "nxtrace_histogram_size",
				Help: "Current number of distinct (core, pc) pairs in the instruction histogram",
			},
		),
		progressLatency: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nxtrace_progress_callback_seconds",
				Help:    "Time spent inside the histogram progress callback",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"final"},
		),
	}
}

func (m *decoderMetrics) ObserveMessage(tcode string, wireBytes int) {
	m.messagesTotal.WithLabelValues(tcode).Inc()
	if wireBytes > 0 {
		m.messageBytes.WithLabelValues(tcode).Add(float64(wireBytes))
	}
}

func (m *decoderMetrics) ObserveMalformed() {
	m.malformedTotal.Inc()
}

func (m *decoderMetrics) ObserveRetired(coreID int, n int) {
	if n <= 0 {
		return
	}
	m.retiredTotal.WithLabelValues(coreLabel(coreID)).Add(float64(n))
}

func (m *decoderMetrics) ObserveCoreError(coreID int, reason string) {
	m.coreErrorsTotal.WithLabelValues(coreLabel(coreID), reason).Inc()
}

func (m *decoderMetrics) RecordQueueDepth(n int) {
	m.queueDepth.Set(float64(n))
}

func (m *decoderMetrics) RecordHistogramSize(n int) {
	m.histogramSize.Set(float64(n))
}

func (m *decoderMetrics) ObserveProgressCallback(d time.Duration, final bool) {
	label := "false"
	if final {
		label = "true"
	}
	m.progressLatency.WithLabelValues(label).Observe(d.Seconds())
}

func coreLabel(coreID int) string {
	return strconv.Itoa(coreID)
}
