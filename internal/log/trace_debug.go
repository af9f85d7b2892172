//go:build debug

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// TraceEnabled reports whether Trace emits anything.
const TraceEnabled = true

// Trace writes "file:line\tmsg" to stderr, followed by any key/value args.
// Only compiled into debug builds.
func Trace(msg string, args ...any) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file = "???"
	}
	if len(args) > 0 {
		msg = fmt.Sprint(msg, " ", fmt.Sprint(args...))
	}
	fmt.Fprintf(os.Stderr, "%s:%d\t%s\n", filepath.Base(file), line, msg)
}
