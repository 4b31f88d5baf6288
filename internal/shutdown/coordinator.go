// Package shutdown coordinates graceful teardown of the server in
// ordered phases.
package shutdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hook is a piece of teardown work with a name for logging.
type Hook struct {
	Name string
	Stop func(ctx context.Context) error
}

// Phase orders teardown. Hooks in the same phase stop concurrently;
// phases run in sequence.
type Phase int

const (
	// PhaseListeners stops accepting new traffic and drains in-flight
	// requests.
	PhaseListeners Phase = iota
	// PhaseWorkers stops background work such as rate limiter cleanup.
	PhaseWorkers
	// PhaseResources closes connection pools and flushes logs.
	PhaseResources
)

func (p Phase) String() string {
	switch p {
	case PhaseListeners:
		return "listeners"
	case PhaseWorkers:
		return "workers"
	case PhaseResources:
		return "resources"
	default:
		return "unknown"
	}
}

// DefaultTimeout bounds the whole teardown sequence.
const DefaultTimeout = 30 * time.Second

// Coordinator collects hooks and runs them once when Shutdown is
// called.
type Coordinator struct {
	mu      sync.Mutex
	hooks   map[Phase][]Hook
	timeout time.Duration
	logger  *zap.Logger

	begun chan struct{}
	once  sync.Once
	done  chan struct{}
}

func NewCoordinator(timeout time.Duration, logger *zap.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Coordinator{
		hooks:   make(map[Phase][]Hook),
		timeout: timeout,
		logger:  logger,
		begun:   make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Register adds a teardown hook to the given phase.
func (c *Coordinator) Register(phase Phase, name string, stop func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks[phase] = append(c.hooks[phase], Hook{Name: name, Stop: stop})
	c.logger.Debug("registered shutdown hook",
		zap.String("hook", name),
		zap.String("phase", phase.String()),
	)
}

// Draining reports whether teardown has begun. Readiness probes use
// this to pull the instance out of rotation before the listener stops.
func (c *Coordinator) Draining() bool {
	select {
	case <-c.begun:
		return true
	default:
		return false
	}
}

// Begun returns a channel closed when teardown starts.
func (c *Coordinator) Begun() <-chan struct{} {
	return c.begun
}

// Shutdown runs all registered hooks. It is safe to call more than
// once; later calls wait for the first run to finish. The caller's
// context only bounds the wait, the hooks themselves get the
// coordinator's full timeout.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		close(c.begun)
		go c.run()
	})

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) run() {
	defer close(c.done)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	c.logger.Info("shutting down", zap.Duration("timeout", c.timeout))

	var failed int
	for _, phase := range []Phase{PhaseListeners, PhaseWorkers, PhaseResources} {
		c.mu.Lock()
		hooks := c.hooks[phase]
		c.mu.Unlock()

		if len(hooks) == 0 {
			continue
		}

		c.logger.Info("shutdown phase",
			zap.String("phase", phase.String()),
			zap.Int("hooks", len(hooks)),
		)
		failed += c.runPhase(ctx, phase, hooks)

		if ctx.Err() != nil {
			c.logger.Error("shutdown timeout exceeded",
				zap.String("phase", phase.String()),
				zap.Error(ctx.Err()),
			)
			break
		}
	}

	if failed > 0 {
		c.logger.Error("shutdown finished with errors", zap.Int("failed_hooks", failed))
	} else {
		c.logger.Info("shutdown complete")
	}
}

func (c *Coordinator) runPhase(ctx context.Context, phase Phase, hooks []Hook) int {
	var wg sync.WaitGroup
	errCh := make(chan error, len(hooks))

	for _, h := range hooks {
		wg.Add(1)
		go func(h Hook) {
			defer wg.Done()

			start := time.Now()
			if err := h.Stop(ctx); err != nil {
				c.logger.Error("shutdown hook failed",
					zap.String("hook", h.Name),
					zap.String("phase", phase.String()),
					zap.Duration("duration", time.Since(start)),
					zap.Error(err),
				)
				errCh <- fmt.Errorf("%s: %w", h.Name, err)
				return
			}
			c.logger.Debug("shutdown hook done",
				zap.String("hook", h.Name),
				zap.String("phase", phase.String()),
				zap.Duration("duration", time.Since(start)),
			)
		}(h)
	}

	wg.Wait()
	close(errCh)

	failed := 0
	for range errCh {
		failed++
	}
	return failed
}
