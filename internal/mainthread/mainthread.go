package mainthread

import (
	"context"
	"runtime"
)

var std = New()

// The main goroutine starts on the process main thread; keep it there so
// Init can hand that thread to the default loop.
func init() {
	runtime.LockOSThread()
}

// Default returns the process-wide loop driven by Init.
func Default() *Loop { return std }

// Configure applies opts to the default loop. It must be called before Init.
// The logger falls back to the package default unless WithLogger is given.
func Configure(opts ...Option) {
	std.apply(opts)
}

// Init runs the default loop on the calling goroutine, which must be the main
// goroutine, and calls run on a new goroutine. It returns after run returns
// and the remaining queued work has executed.
func Init(run func()) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		run()
	}()
	_ = std.Run(ctx)
}

// IsMain reports whether the caller is the default loop's goroutine.
func IsMain() bool { return std.IsMain() }

// RunOnMain runs work on the default loop.
func RunOnMain(work func(), mode Mode) error { return std.RunOnMain(work, mode) }

// Call runs work on the default loop and waits for it.
func Call(work func()) error { return std.Sync(work) }

// Go schedules work on the default loop without waiting.
func Go(work func()) error { return std.Async(work) }
