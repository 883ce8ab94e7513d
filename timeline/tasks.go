package timeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/lixenwraith/iron-idols/core"
)

// Tasks owns the background work a run leaves behind (slideshow, hidden message)
// Every task is cancelled and awaited by Close
type Tasks struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	mu     sync.Mutex
	named  map[string]*task
	wg     sync.WaitGroup
	closed bool
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTasks creates a task set whose tasks stop when parent is done or on Close
func NewTasks(parent context.Context, log *slog.Logger) *Tasks {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(parent)
	return &Tasks{
		ctx:    ctx,
		cancel: cancel,
		log:    log,
		named:  make(map[string]*task),
	}
}

// Go starts fn as the task called name, cancelling any running task of that name
// Returns false once the set is closed
func (ts *Tasks) Go(name string, fn func(ctx context.Context) error) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return false
	}
	if prev, ok := ts.named[name]; ok {
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(ts.ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}
	ts.named[name] = t
	ts.wg.Add(1)

	core.Go(func() {
		defer ts.wg.Done()
		defer close(t.done)
		defer cancel()

		ts.log.Debug("task started", "task", name)
		err := fn(ctx)
		switch {
		case err == nil:
			ts.log.Debug("task finished", "task", name)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			ts.log.Debug("task cancelled", "task", name)
		default:
			ts.log.Warn("task failed", "task", name, "error", err)
		}

		ts.mu.Lock()
		if ts.named[name] == t {
			delete(ts.named, name)
		}
		ts.mu.Unlock()
	})
	return true
}

// Cancel stops the task called name, if running, and waits for it
func (ts *Tasks) Cancel(name string) {
	ts.mu.Lock()
	t, ok := ts.named[name]
	ts.mu.Unlock()
	if !ok {
		return
	}
	t.cancel()
	<-t.done
}

// running reports whether a task called name is active
func (ts *Tasks) running(name string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_, ok := ts.named[name]
	return ok
}

// Close cancels every task and waits for all of them; safe to call repeatedly
func (ts *Tasks) Close() {
	ts.mu.Lock()
	ts.closed = true
	ts.mu.Unlock()

	ts.cancel()
	ts.wg.Wait()
}
