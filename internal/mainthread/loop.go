package mainthread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mj1618/uiruntime/internal/log"
	"github.com/mj1618/uiruntime/internal/metrics"
)

// Mode selects whether RunOnMain waits for the work to finish.
type Mode int

const (
	// Async enqueues work and returns immediately.
	Async Mode = iota
	// Sync blocks the caller until work has run.
	Sync
)

func (m Mode) String() string {
	switch m {
	case Async:
		return "async"
	case Sync:
		return "sync"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

var (
	// ErrStopped is returned for work submitted after the loop stopped.
	ErrStopped = errors.New("main-thread loop stopped")

	// ErrAlreadyRunning is returned by Run when the loop already has a
	// designated goroutine.
	ErrAlreadyRunning = errors.New("main-thread loop already running")
)

// PanicError carries a panic recovered from a queued Sync work item.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("work item panicked: %v", e.Value)
}

type loopState int

const (
	stateIdle loopState = iota
	stateRunning
	stateStopped
)

type workItem struct {
	fn   func()
	mode Mode
	done chan error
}

// Loop runs work items on a single designated goroutine.
type Loop struct {
	id uuid.UUID

	mu    sync.Mutex
	queue []workItem
	state loopState
	wake  chan struct{}

	gid atomic.Uint64

	logger  *slog.Logger
	metrics *metrics.Collectors
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) { lp.logger = l }
}

// WithMetrics records executed work and queue depth in c.
func WithMetrics(c *metrics.Collectors) Option {
	return func(lp *Loop) { lp.metrics = c }
}

// New returns a loop that has not started. Work submitted before Run is
// queued and executed once Run starts.
func New(opts ...Option) *Loop {
	l := &Loop{
		id:   uuid.New(),
		wake: make(chan struct{}, 1),
	}
	l.apply(opts)
	return l
}

func (l *Loop) apply(opts []Option) {
	l.logger = nil
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.WithComponent("mainthread")
	}
	l.logger = l.logger.With("loop", l.id.String())
}

// ID identifies the loop in logs.
func (l *Loop) ID() uuid.UUID { return l.id }

// Run makes the calling goroutine the designated goroutine and executes
// queued work until ctx is done. Work still queued at that point runs before
// Run returns ctx.Err(). A loop runs at most once.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case stateRunning:
		l.mu.Unlock()
		return ErrAlreadyRunning
	case stateStopped:
		l.mu.Unlock()
		return ErrStopped
	}
	l.state = stateRunning
	l.mu.Unlock()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l.gid.Store(goid())
	defer l.gid.Store(0)

	l.logger.Debug("loop started")
	for {
		select {
		case <-ctx.Done():
			l.stop()
			l.logger.Debug("loop stopped")
			return ctx.Err()
		case <-l.wake:
			l.drain()
		}
	}
}

// IsMain reports whether the caller is the loop's designated goroutine.
func (l *Loop) IsMain() bool {
	id := l.gid.Load()
	return id != 0 && id == goid()
}

// RunOnMain executes work on the designated goroutine. See the package
// documentation for the semantics of each mode.
//
// Inline calls (from the designated goroutine) behave like a plain function
// call, panics included. A panic in queued work is recovered on the loop and,
// in Sync mode, returned as a *PanicError.
func (l *Loop) RunOnMain(work func(), mode Mode) error {
	if work == nil {
		return nil
	}
	if mode != Async && mode != Sync {
		return fmt.Errorf("run on main: unknown %s", mode)
	}
	if l.IsMain() {
		work()
		l.metrics.WorkItem(mode.String(), "inline")
		return nil
	}

	if mode == Async {
		return l.enqueue(workItem{fn: work, mode: Async})
	}
	done := make(chan error, 1)
	if err := l.enqueue(workItem{fn: work, mode: Sync, done: done}); err != nil {
		return err
	}
	return <-done
}

// Async is RunOnMain(work, Async).
func (l *Loop) Async(work func()) error {
	return l.RunOnMain(work, Async)
}

// Sync is RunOnMain(work, Sync).
func (l *Loop) Sync(work func()) error {
	return l.RunOnMain(work, Sync)
}

// Pending returns the number of queued work items.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) enqueue(it workItem) error {
	l.mu.Lock()
	if l.state == stateStopped {
		l.mu.Unlock()
		return ErrStopped
	}
	l.queue = append(l.queue, it)
	l.metrics.SetQueueDepth(len(l.queue))
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// drain runs queued items one at a time until the queue is empty, so items
// enqueued while draining are picked up in order.
func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		it := l.queue[0]
		l.queue[0] = workItem{}
		l.queue = l.queue[1:]
		l.metrics.SetQueueDepth(len(l.queue))
		l.mu.Unlock()

		l.execute(it)
	}
}

func (l *Loop) stop() {
	l.mu.Lock()
	l.state = stateStopped
	l.mu.Unlock()
	l.drain()
}

func (l *Loop) execute(it workItem) {
	err := l.call(it.fn)
	l.metrics.WorkItem(it.mode.String(), "queued")
	if it.done != nil {
		it.done <- err
	}
}

func (l *Loop) call(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.metrics.Panic()
			l.logger.Error("work item panicked", "panic", r)
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}
