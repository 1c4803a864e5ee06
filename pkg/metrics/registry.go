// Package metrics defines the decoder's Prometheus metrics contract as a
// plain interface, the way the teacher project decouples pkg/cache from
// pkg/metrics/prometheus: the decode pipeline (pkg/trace, pkg/nexus)
// depends only on this package's interfaces, never on prometheus directly,
// so metrics stay a zero-cost no-op unless pkg/metrics/prometheus is
// imported (by cmd/nxtrace) and InitRegistry is called.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry creates the metrics registry used by every Prometheus-backed
// collector returned from this package's New* constructors. Calling it more
// than once replaces the registry (existing collectors keep reporting into
// their original one).
func InitRegistry() *prometheus.Registry {
	registry = prometheus.NewRegistry()
	enabled = true
	return registry
}

// IsEnabled reports whether InitRegistry has been called. Constructors in
// this package return nil (a safe, fully inert implementation) when false.
func IsEnabled() bool {
	return enabled
}

// GetRegistry returns the active registry, creating one via InitRegistry if
// none exists yet.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Disable turns metrics collection back off and drops the registry. Mostly
// useful for tests that need a clean slate between cases.
func Disable() {
	registry = nil
	enabled = false
}
