package prometheus

import (
	"context"
	"fmt"
	"net/http"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/logger"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the metrics registry over HTTP at /metrics for Prometheus
// to scrape.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a metrics HTTP server listening on port. It does not
// start listening until Start is called.
func NewServer(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}
}

// Start begins serving in a background goroutine, logging (not returning)
// any error other than the expected http.ErrServerClosed from Shutdown.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server stopped unexpectedly", logger.Err(err))
		}
	}()
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
