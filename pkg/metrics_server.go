package pkg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes a Prometheus gatherer on /metrics.
type MetricsServer struct {
	httpServer *http.Server
	listenAddr string
}

// NewMetricsServer serves gatherer on listenAddr. Collectors must be
// registered before Start is called.
func NewMetricsServer(listenAddr string, gatherer prometheus.Gatherer) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * ClientTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return &MetricsServer{
		httpServer: srv,
		listenAddr: listenAddr,
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned directly; later failures are sent on the returned channel
// (http.ErrServerClosed excluded).
func (s *MetricsServer) Start() (<-chan error, error) {
	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.listenAddr, err)
	}
	s.listenAddr = ln.Addr().String()
	slog.Info("Starting Prometheus metrics server...", "address", s.listenAddr)

	errChan := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("prometheus metrics server failed: %w", err)
		}
	}()

	return errChan, nil
}

// Addr is the address the server listens on, resolved after Start.
func (s *MetricsServer) Addr() string { return s.listenAddr }

// Shutdown gracefully shuts down the HTTP server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	slog.Info("Attempting graceful shutdown of metrics server...")
	err := s.httpServer.Shutdown(ctx)
	if err == nil {
		slog.Info("Metrics server stopped gracefully.")
	} else if errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("Metrics server shutdown timed out.", "error", err)
	} else {
		slog.Error("Error during metrics server shutdown.", "error", err)
	}
	return err
}
