package shutdown

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/psantana5/lapse/pkg/logging"
)

// Manager coordinates graceful shutdown of long-running components.
// Cleanup functions run in reverse registration order, so the last
// component started is the first one stopped.
type Manager struct {
	funcs   []func(context.Context) error
	mu      sync.Mutex
	timeout time.Duration
	done    chan struct{}
	once    sync.Once
	log     *logging.Logger
}

// New creates a manager whose entire shutdown sequence is bounded by
// the given timeout
func New(timeout time.Duration, log *logging.Logger) *Manager {
	return &Manager{
		timeout: timeout,
		done:    make(chan struct{}),
		log:     log,
	}
}

// Register adds a cleanup function to run during shutdown
func (m *Manager) Register(fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append(m.funcs, fn)
}

// Wait blocks until SIGINT or SIGTERM arrives, then runs the shutdown
// sequence
func (m *Manager) Wait() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	m.log.Info("Received signal, shutting down", map[string]interface{}{
		"signal": sig.String(),
	})
	m.Shutdown()
}

// WaitWithContext blocks until a signal arrives or the context is
// cancelled, then runs the shutdown sequence
func (m *Manager) WaitWithContext(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		m.log.Info("Received signal, shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
	case <-ctx.Done():
		m.log.Info("Context cancelled, shutting down")
	}
	m.Shutdown()
}

// Done is closed once the shutdown sequence has finished
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Shutdown runs the registered cleanup functions in LIFO order. It is
// safe to call more than once; only the first call does anything.
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.mu.Lock()
		funcs := make([]func(context.Context) error, len(m.funcs))
		copy(funcs, m.funcs)
		m.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		for i := len(funcs) - 1; i >= 0; i-- {
			if err := funcs[i](ctx); err != nil {
				m.log.Error("Shutdown step failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
		close(m.done)
	})
}

// StopHTTPServer adapts an HTTP server's Shutdown method for Register
func StopHTTPServer(server interface{ Shutdown(context.Context) error }) func(context.Context) error {
	return func(ctx context.Context) error {
		return server.Shutdown(ctx)
	}
}

// CloseResource adapts an io.Closer for Register
func CloseResource(closer io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return closer.Close()
	}
}
