// Package log wraps log/slog with a process-wide logger and a debug-only
// Trace helper.
//
// Trace mirrors a classic DEBUG-only print macro: it writes the caller's file
// and line with the message, and compiles to nothing unless the binary is
// built with the "debug" tag.
package log
