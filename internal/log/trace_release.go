//go:build !debug

package log

// TraceEnabled reports whether Trace emits anything. Release builds drop
// trace output entirely.
const TraceEnabled = false

// Trace is a no-op in release builds. Build with -tags debug to enable it.
func Trace(msg string, args ...any) {}
