// Package server runs the HTTP listener and drives graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownFunc stops one component. ctx carries the shutdown deadline.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   ShutdownFunc
}

// Server owns an http.Server plus the components to stop after it.
type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger

	mu    sync.Mutex
	hooks []hook
	addr  net.Addr
	ready chan struct{}
}

// New creates a Server for addr (host:port).
func New(handler http.Handler, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration, logger *slog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readTimeout,
			WriteTimeout:      writeTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		ready:           make(chan struct{}),
	}
}

// OnShutdown registers fn to run after the listener closes.
// Hooks run in reverse registration order.
func (s *Server) OnShutdown(name string, fn ShutdownFunc) {
	s.mu.Lock()
	s.hooks = append(s.hooks, hook{name: name, fn: fn})
	s.mu.Unlock()
}

// Run listens on the configured address and serves until ctx is done,
// SIGINT or SIGTERM arrives, or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	close(s.ready)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown requested", "cause", context.Cause(ctx))
		return s.shutdown()
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.http.SetKeepAlivesEnabled(false)
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("http shutdown", "error", err)
	}
	s.logger.Info("http server stopped")

	s.mu.Lock()
	hooks := make([]hook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if err := h.fn(ctx); err != nil {
			s.logger.Error("component shutdown failed", "name", h.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		s.logger.Info("component stopped", "name", h.name)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

// Ready is closed once the server has a listener.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address once serving, otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr != nil {
		return s.addr.String()
	}
	return s.http.Addr
}
