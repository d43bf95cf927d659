package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/dittokv/internal/logger"
	"github.com/marmos91/dittokv/pkg/registry"
)

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
const DefaultShutdownTimeout = 30 * time.Second

// AuxiliaryServer is an interface for auxiliary HTTP servers (API).
type AuxiliaryServer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Port() int
}

// StoreRegistry is the part of the registry the service drives.
type StoreRegistry interface {
	Start(ctx context.Context) *registry.Future
	Shutdown()
}

// Service orchestrates server startup and graceful shutdown.
type Service struct {
	shutdownTimeout time.Duration
	apiServer       AuxiliaryServer

	// serveOnce ensures Serve() is only called once
	serveOnce sync.Once
	served    bool
}

// New creates a new lifecycle service.
func New(shutdownTimeout time.Duration) *Service {
	if shutdownTimeout == 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Service{
		shutdownTimeout: shutdownTimeout,
	}
}

// SetShutdownTimeout sets the maximum time to wait for graceful shutdown.
func (s *Service) SetShutdownTimeout(d time.Duration) {
	if d == 0 {
		d = DefaultShutdownTimeout
	}
	s.shutdownTimeout = d
}

// ShutdownTimeout returns the graceful shutdown timeout.
func (s *Service) ShutdownTimeout() time.Duration {
	return s.shutdownTimeout
}

// SetAPIServer sets the HTTP API server.
// Must be called before Serve().
func (s *Service) SetAPIServer(server AuxiliaryServer) {
	if s.served {
		panic("cannot set API server after Serve() has been called")
	}
	s.apiServer = server
	if server != nil {
		logger.Info("API server registered", "port", server.Port())
	}
}

// Serve starts the registry and the API server, then blocks until ctx is
// cancelled or the API server fails. Components are torn down in reverse
// order before it returns.
//
// Serve returns the registry start error if the registry fails to start,
// ctx.Err() on a shutdown signal, or the API server error.
func (s *Service) Serve(ctx context.Context, reg StoreRegistry) error {
	err := fmt.Errorf("service already served")

	s.serveOnce.Do(func() {
		s.served = true
		err = s.serve(ctx, reg)
	})

	return err
}

func (s *Service) serve(ctx context.Context, reg StoreRegistry) error {
	logger.Info("Starting DittoKV runtime")
	start := time.Now()

	// 1. Start the registry and wait for every store to be materialized
	if err := reg.Start(ctx).Wait(ctx); err != nil {
		reg.Shutdown()
		return fmt.Errorf("failed to start registry: %w", err)
	}
	logger.Info("Registry started", logger.DurationMs(logger.Duration(start)))

	// 2. Start API server if configured
	apiErrChan := make(chan error, 1)
	if s.apiServer != nil {
		go func() {
			if err := s.apiServer.Start(ctx); err != nil {
				logger.Error("API server error", logger.Err(err))
				apiErrChan <- err
			}
		}()
	}

	// 3. Wait for shutdown signal or server error
	var shutdownErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received", "reason", ctx.Err())
		shutdownErr = ctx.Err()

	case err := <-apiErrChan:
		logger.Error("API server failed - initiating shutdown", logger.Err(err))
		shutdownErr = fmt.Errorf("API server error: %w", err)
	}

	// 4. Graceful shutdown
	s.shutdown(reg)

	logger.Info("DittoKV runtime stopped")
	return shutdownErr
}

// shutdown stops the API server, then the registry.
func (s *Service) shutdown(reg StoreRegistry) {
	if s.apiServer != nil {
		logger.Debug("Stopping API server")
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.apiServer.Stop(ctx); err != nil {
			logger.Error("API server shutdown error", logger.Err(err))
		}
	}

	logger.Info("Shutting down registry")
	reg.Shutdown()
}
