// Package server manages startup and shutdown of the relay's
// long-running services.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component of the relay. Start blocks until
// the service stops or fails; Stop asks it to wind down gracefully.
type Service interface {
	Start() error
	Stop()
}

// Lifecycle starts registered services in order and stops them in
// reverse order when a termination signal arrives, the context is
// cancelled, or any service fails.
type Lifecycle struct {
	logger  *zap.Logger
	mu      sync.Mutex
	entries []entry
}

type entry struct {
	name string
	svc  Service
}

// NewLifecycle creates a Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service. Services start in registration order.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{name: name, svc: svc})
}

// Run starts every registered service and blocks until SIGINT or
// SIGTERM, context cancellation, or a service failure, then stops the
// services in reverse order.
//
// Postcondition: All services are stopped when this method returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	started := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make(chan error, len(l.entries))
	for _, e := range l.entries {
		e := e
		go func() {
			l.logger.Info("starting service",
				zap.String("service", e.name),
			)
			if err := e.svc.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", e.name),
					zap.Error(err),
				)
				failures <- fmt.Errorf("service %s: %w", e.name, err)
				cancel()
			}
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		l.logger.Info("received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case err := <-failures:
		l.logger.Error("service error, shutting down",
			zap.Error(err),
		)
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.stopAll()

	l.logger.Info("shutdown complete",
		zap.Duration("uptime", time.Since(started)),
	)
	return nil
}

func (l *Lifecycle) stopAll() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		l.logger.Info("stopping service",
			zap.String("service", e.name),
		)
		e.svc.Stop()
		l.logger.Info("service stopped",
			zap.String("service", e.name),
		)
	}
}
