// Package goroutine bounds fan-out work behind a semaphore. The relay uses
// it to dispatch outbound mail concurrently without letting a burst of
// replies spawn unbounded goroutines.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/anonpersonals/personals/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is the per-CPU multiplier applied when NewManager
// receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// Manager runs tasks under a fixed concurrency cap, survives task panics,
// and collects task errors for Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      *sync.WaitGroup
	slots   chan struct{}
	stateMu sync.RWMutex
	closed  bool
}

// NewManager builds a Manager allowing at most maxGoroutine concurrent tasks.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{
		wg:    &sync.WaitGroup{},
		slots: make(chan struct{}, maxGoroutine),
	}
}

// Go runs f in a goroutine when a slot is free. When the manager is at its
// cap or already closed, f is dropped with a warning rather than queued. A
// context already canceled by the time the slot opens also drops the task.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.stateMu.RLock()
	if g.closed {
		g.stateMu.RUnlock()
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return
	}

	select {
	case g.slots <- struct{}{}:
		g.wg.Go(func() {
			g.stateMu.RUnlock()
			defer func() {
				<-g.slots

				if rvr := recover(); rvr != nil {
					stack := debug.Stack()
					paths := stacktrace.InternalPaths(stack)
					if len(paths) == 0 {
						slog.ErrorContext(ctx, "panic occurred in goroutine", "stack", string(stack))
					} else {
						slog.ErrorContext(ctx, "panic occurred in goroutine", "stack", paths)
					}
				}
			}()

			select {
			case <-ctx.Done():
				slog.WarnContext(ctx, "goroutine canceled", "because", ctx.Err())
			default:
				if err := f(ctx); err != nil {
					g.mu.Lock()
					g.errs = append(g.errs, err)
					g.mu.Unlock()
				}
			}
		})

	default:
		g.stateMu.RUnlock()
		slog.WarnContext(ctx, "Maximum goroutine limit reached, failed to start new goroutine")
	}
}

// Wait closes the manager to new work, blocks until running tasks finish,
// and returns the joined task errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	return errors.Join(g.errs...)
}
