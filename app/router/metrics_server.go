package router

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes the Prometheus registry on a separate listener so
// scrapes never pass through the public API middleware chain.
type MetricsServer struct {
	srv *http.Server
}

// NewMetricsServer creates a metrics server for the given address
func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{srv: &http.Server{Addr: addr, Handler: mux}}
}

// Start starts the metrics listener
func (s *MetricsServer) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops the metrics listener
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
