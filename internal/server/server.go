// Package server wraps http.Server with context-driven graceful shutdown,
// sane timeouts, and structured logging.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/secretwall/secretwall/internal/logger"
)

// Server is an HTTP server with graceful shutdown. Create with New, start
// with Run; cancelling the context drains in-flight requests before
// returning.
type Server struct {
	httpServer      *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a server listening on addr.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log:             logger.Noop(),
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves handler until ctx is cancelled, then shuts down gracefully.
// It blocks and returns nil on clean shutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	s.httpServer.Handler = handler
	s.httpServer.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "server starting", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.InfoContext(ctx, "server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.ErrorContext(ctx, "graceful shutdown failed", logger.Error(err))
		return err
	}
	return <-errCh
}

// Run starts an HTTP server on addr and returns a function suitable for
// errgroup.Group.Go. The server shuts down when ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler, opts ...Option) func() error {
	return func() error {
		return New(addr, opts...).Run(ctx, handler)
	}
}
