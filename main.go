package main

import (
	"github.com/mj1618/uiruntime/cmd"
	"github.com/mj1618/uiruntime/internal/mainthread"
)

func main() {
	mainthread.Configure(mainthread.WithMetrics(cmd.Metrics()))
	// The command tree runs off the main goroutine; the main goroutine drives
	// the UI loop that owns dispatch-table mutation.
	mainthread.Init(cmd.Execute)
}
