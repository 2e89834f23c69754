// Package http implements the HTTP/JSON adapter: the REST surface over
// the file hierarchy, the access gate, and the user directory.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"filevault/internal/logger"
	"filevault/internal/ratelimiter"
	"filevault/pkg/auth"
	"filevault/pkg/files"
	"filevault/pkg/registry"
)

// Config contains the HTTP adapter settings.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// RateLimit caps sustained requests per second across all clients;
	// 0 disables limiting. RateBurst is the bucket capacity.
	RateLimit uint
	RateBurst uint
}

// HTTPAdapter serves the REST API. It implements adapter.Adapter.
type HTTPAdapter struct {
	cfg Config

	mu  sync.Mutex
	reg *registry.Registry
	srv *http.Server
}

// New creates an HTTP adapter with the given configuration.
func New(cfg Config) *HTTPAdapter {
	return &HTTPAdapter{cfg: cfg}
}

// SetRegistry injects the shared store registry.
func (a *HTTPAdapter) SetRegistry(reg *registry.Registry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reg = reg
}

// Protocol implements adapter.Adapter.
func (a *HTTPAdapter) Protocol() string {
	return "HTTP"
}

// Port implements adapter.Adapter.
func (a *HTTPAdapter) Port() int {
	return a.cfg.Port
}

// Serve starts the HTTP server and blocks until the context is
// cancelled or the listener fails.
func (a *HTTPAdapter) Serve(ctx context.Context) error {
	a.mu.Lock()
	if a.reg == nil {
		a.mu.Unlock()
		return fmt.Errorf("http adapter: registry not set")
	}

	h := newHandlers(
		a.reg,
		files.NewHierarchy(a.reg.Metadata(), a.reg.Blobs()),
		auth.NewGate(a.reg.Sessions()),
	)

	var limiter *ratelimiter.RateLimiter
	if a.cfg.RateLimit > 0 {
		limiter = ratelimiter.New(a.cfg.RateLimit, a.cfg.RateBurst)
	}

	a.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.cfg.Host, a.cfg.Port),
		Handler:      newRouter(h, limiter),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}
	srv := a.srv
	a.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("HTTP adapter listening on %s", srv.Addr)

	select {
	case <-ctx.Done():
		// pkg/server issues Stop with its shutdown timeout; waiting on
		// errCh here observes the listener winding down either way.
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()

	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http adapter failed: %w", err)
		}
		return nil
	}
}

// Stop gracefully shuts the server down, waiting for in-flight
// requests up to the context deadline. Idempotent.
func (a *HTTPAdapter) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.srv
	a.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}
