package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/craftdet/internal/config"
	"github.com/MeKo-Tech/craftdet/internal/pipeline"
)

// Server exposes the detection pipeline over HTTP.
type Server struct {
	pipeline    *pipeline.Pipeline
	host        string
	port        int
	maxUploadMB int64
	timeout     time.Duration
	httpServer  *http.Server
}

// New creates a server around a detection pipeline.
func New(p *pipeline.Pipeline, cfg config.ServerConfig) *Server {
	return &Server{
		pipeline:    p,
		host:        cfg.Host,
		port:        cfg.Port,
		maxUploadMB: int64(cfg.MaxUploadMB),
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
	}
}

// routes builds the HTTP mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.instrument(s.healthHandler))
	mux.HandleFunc("/detect", s.instrument(s.detectHandler))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("shutting down server")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
