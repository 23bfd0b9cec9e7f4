package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/worker"
)

// Server binds one listener and serves it with a fixed-size worker pool.
//
// A Server moves from unbound to serving exactly once: Listen binds, Run
// serves until its context is cancelled or a worker fails. It cannot be
// restarted.
type Server struct {
	name            string
	srv             *http.Server
	workers         int
	shutdownTimeout time.Duration
	logger          *zap.Logger
	onAccept        func(workerID int)

	pool *worker.Pool
}

// Option customises a Server.
type Option func(*Server)

// WithShutdownTimeout bounds how long Run waits for in-flight requests once
// shutdown starts. Defaults to 30s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithAcceptHook installs a callback invoked with the worker ID for every
// accepted connection.
func WithAcceptHook(fn func(workerID int)) Option {
	return func(s *Server) { s.onAccept = fn }
}

func New(name string, handler http.Handler, workers int, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		name:            name,
		workers:         workers,
		shutdownTimeout: 30 * time.Second,
		logger:          logger.With(zap.String("server", name)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.srv = &http.Server{
		Handler:     handler,
		ConnContext: worker.ConnContext,
		ErrorLog:    zap.NewStdLog(s.logger),
	}
	return s
}

// Listen binds addr. A failure here is the only startup error a Server
// reports; the caller decides whether it is fatal.
func (s *Server) Listen(addr string) error {
	if s.pool != nil {
		return fmt.Errorf("%s server already bound to %s", s.name, s.srv.Addr)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.srv.Addr = ln.Addr().String()
	s.pool = worker.NewPool(s.workers, s.srv, ln, s.logger, s.onAccept)
	s.logger.Info("listener bound", zap.String("addr", s.srv.Addr), zap.Int("workers", s.workers))
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run serves until ctx is cancelled or a worker fails, then shuts down
// gracefully and waits for every worker. It returns nil after a clean,
// context-triggered shutdown.
func (s *Server) Run(ctx context.Context) error {
	if s.pool == nil {
		return errors.New(s.name + " server: Run called before Listen")
	}

	if s.workers == 0 {
		s.logger.Warn("worker count is zero; listener is bound but no connections will be accepted")
	}

	stop := s.pool.Start(ctx)
	<-stop.Done()

	s.logger.Info("shutting down")

	// The parent context is already cancelled at this point.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	shutdownErr := s.srv.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		s.logger.Error("shutdown error", zap.Error(shutdownErr))
	}
	// With zero workers the server never tracked the listener.
	_ = s.pool.Close()

	if err := s.pool.Wait(); err != nil {
		return err
	}
	if shutdownErr != nil {
		return fmt.Errorf("%s server shutdown: %w", s.name, shutdownErr)
	}

	s.logger.Info("stopped")
	return nil
}
