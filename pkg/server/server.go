// Package server orchestrates the lifecycle of protocol adapters that
// share one store registry.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"filevault/internal/logger"
	"filevault/pkg/adapter"
	"filevault/pkg/registry"
)

// ShutdownTimeout bounds the graceful shutdown of every adapter.
const ShutdownTimeout = 30 * time.Second

// Server manages one or more protocol adapters over a shared store
// registry. Only the HTTP adapter exists today; the structure keeps
// room for additional protocols on separate ports.
//
// Lifecycle:
//  1. New() with the registry
//  2. AddAdapter() per protocol
//  3. Serve() runs until the context is cancelled or an adapter fails
//
// Thread safety: AddAdapter may be called concurrently before Serve;
// Serve must be called at most once.
type Server struct {
	reg *registry.Registry

	mu       sync.RWMutex
	adapters []adapter.Adapter
	served   bool
}

// New creates a server around the given registry.
// Panics on a nil registry, which is a programmer error.
func New(reg *registry.Registry) *Server {
	if reg == nil {
		panic("server: registry cannot be nil")
	}
	return &Server{reg: reg}
}

// AddAdapter registers an adapter and injects the shared registry.
// Duplicate protocols and port conflicts are rejected.
func (s *Server) AddAdapter(a adapter.Adapter) error {
	if a == nil {
		panic("server: adapter cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.served {
		panic("server: cannot add adapter after Serve")
	}

	for _, existing := range s.adapters {
		if existing.Protocol() == a.Protocol() {
			return fmt.Errorf("adapter for protocol %s already registered", a.Protocol())
		}
		if existing.Port() == a.Port() {
			return fmt.Errorf("port %d already in use by %s adapter", a.Port(), existing.Protocol())
		}
	}

	a.SetRegistry(s.reg)
	s.adapters = append(s.adapters, a)

	logger.Info("Registered %s adapter on port %d", a.Protocol(), a.Port())
	return nil
}

// Serve starts every registered adapter and blocks until the context
// is cancelled or one of them fails. On either event all adapters are
// stopped in reverse registration order, each bounded by
// ShutdownTimeout, and Serve waits for them to wind down.
//
// Returns ctx.Err() after a cancellation-driven shutdown, or the first
// adapter error otherwise.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.served {
		s.mu.Unlock()
		panic("server: Serve called twice")
	}
	s.served = true

	if len(s.adapters) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("no adapters registered; call AddAdapter before Serve")
	}
	adapters := make([]adapter.Adapter, len(s.adapters))
	copy(adapters, s.adapters)
	s.mu.Unlock()

	logger.Info("Starting server with %d adapter(s)", len(adapters))

	// Buffered so a failing adapter never blocks on report.
	errCh := make(chan adapterError, len(adapters))

	var wg sync.WaitGroup
	for _, adp := range adapters {
		wg.Add(1)
		go func(a adapter.Adapter) {
			defer wg.Done()

			logger.Info("Starting %s adapter on port %d", a.Protocol(), a.Port())

			err := a.Serve(ctx)
			switch {
			case err == nil:
				logger.Info("%s adapter stopped", a.Protocol())
			case err == context.Canceled || ctx.Err() != nil:
				logger.Debug("%s adapter stopped gracefully", a.Protocol())
			default:
				logger.Error("%s adapter failed: %v", a.Protocol(), err)
				errCh <- adapterError{protocol: a.Protocol(), err: err}
			}
		}(adp)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received (reason: %v)", ctx.Err())
		s.stopAll(adapters)
		serveErr = ctx.Err()

	case ae := <-errCh:
		logger.Error("%s adapter failed, stopping all adapters", ae.protocol)
		s.stopAll(adapters)
		serveErr = fmt.Errorf("%s adapter error: %w", ae.protocol, ae.err)
	}

	wg.Wait()
	logger.Info("Server stopped")

	return serveErr
}

// Adapters returns a snapshot of the registered adapters.
func (s *Server) Adapters() []adapter.Adapter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]adapter.Adapter, len(s.adapters))
	copy(out, s.adapters)
	return out
}

type adapterError struct {
	protocol string
	err      error
}

// stopAll issues Stop to every adapter in reverse registration order,
// all bounded by one ShutdownTimeout window. Errors are logged and do
// not halt the remaining stops; the Serve goroutines perform the
// actual wind-down.
func (s *Server) stopAll(adapters []adapter.Adapter) {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	logger.Info("Stopping %d adapter(s)", len(adapters))

	for i := len(adapters) - 1; i >= 0; i-- {
		adp := adapters[i]
		if err := adp.Stop(ctx); err != nil && err != context.Canceled {
			logger.Error("Error stopping %s adapter: %v", adp.Protocol(), err)
		}
	}
}
