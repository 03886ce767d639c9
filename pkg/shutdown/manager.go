// Package shutdown stops registered components in reverse registration order.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	shutdownDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "authnet_shutdown_duration_seconds",
		Help:    "Total time taken to shut down",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
	})

	shutdownErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authnet_shutdown_errors_total",
		Help: "Shutdown failures by component",
	}, []string{"component"})
)

// Func stops one component.
type Func func(context.Context) error

type component struct {
	name string
	stop Func
}

// Manager runs shutdown functions last-registered first, so register
// dependencies (database) before their users (HTTP server).
type Manager struct {
	mu         sync.Mutex
	components []component
	timeout    time.Duration
	logger     *zap.Logger
}

// NewManager creates a manager whose Shutdown gives up after timeout.
func NewManager(timeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a shutdown function.
func (m *Manager) Register(name string, fn Func) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{name: name, stop: fn})
}

// RegisterNoErr adds a shutdown function that cannot fail.
func (m *Manager) RegisterNoErr(name string, fn func()) {
	m.Register(name, func(context.Context) error {
		fn()
		return nil
	})
}

// WaitForSignal blocks until SIGINT or SIGTERM, then calls Shutdown.
func (m *Manager) WaitForSignal() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	sig := <-quit
	m.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	return m.Shutdown(context.Background())
}

// Shutdown stops every component in reverse order. A failing component does
// not stop the rest; all failures are joined into the returned error.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	components := make([]component, len(m.components))
	copy(components, m.components)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	var errs []error
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		if err := c.stop(ctx); err != nil {
			shutdownErrors.WithLabelValues(c.name).Inc()
			m.logger.Error("Component shutdown failed", zap.String("component", c.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		m.logger.Debug("Component stopped", zap.String("component", c.name))
	}

	elapsed := time.Since(start)
	shutdownDuration.Observe(elapsed.Seconds())
	m.logger.Info("Shutdown complete", zap.Duration("elapsed", elapsed), zap.Int("errors", len(errs)))
	return errors.Join(errs...)
}
