// Package mainthread confines work to one designated goroutine.
//
// A Loop is driven by whichever goroutine calls Run; that goroutine is pinned
// to its OS thread for the lifetime of the loop and becomes the designated
// ("main") goroutine. RunOnMain executes work there:
//
//   - called from the designated goroutine, work runs immediately in the
//     caller's frame, whatever the mode;
//   - Async enqueues work and returns at once;
//   - Sync enqueues work and blocks until it has finished.
//
// Work items never run concurrently with each other, and async submissions
// run in FIFO order. A Sync submission from a goroutine the loop is itself
// waiting on will deadlock; the loop cannot detect this. Sync has no timeout.
//
// The package also owns a default loop for the process main thread. Call Init
// from main and do everything else inside the function it runs:
//
//	func main() {
//		mainthread.Init(run)
//	}
//
//	func run() {
//		mainthread.Call(func() { window.Show() })
//	}
package mainthread
