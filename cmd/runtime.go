package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mj1618/uiruntime/internal/config"
	"github.com/mj1618/uiruntime/internal/demo"
	"github.com/mj1618/uiruntime/internal/dispatch"
	"github.com/mj1618/uiruntime/internal/log"
	"github.com/mj1618/uiruntime/internal/mainthread"
	"github.com/mj1618/uiruntime/internal/metrics"
	"github.com/mj1618/uiruntime/internal/platform"
)

// Runtime is everything a command operates on.
type Runtime struct {
	Table    *dispatch.Table
	Loop     *mainthread.Loop
	Provider *platform.Provider
	Metrics  *metrics.Collectors
	Registry *prometheus.Registry
}

// uiLoop is the loop that owns table mutation. main drives it via
// mainthread.Init.
var uiLoop = mainthread.Default()

// collectors is shared by the UI loop and every runtime built in this
// process. Each runtime registers it in its own registry.
var collectors = metrics.New()

// Metrics returns the process-wide collectors so main can hand them to the
// UI loop before it starts.
func Metrics() *metrics.Collectors { return collectors }

func newRuntime(cfg config.Config) (*Runtime, error) {
	policy, err := dispatch.ParseRepeatPolicy(cfg.Dispatch.RepeatPolicy)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := collectors
	if err := m.Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	table, err := demo.NewTable(uiLoop.Async,
		dispatch.WithLogger(log.WithComponent("dispatch")),
		dispatch.WithMetrics(m),
		dispatch.WithRepeatPolicy(policy),
	)
	if err != nil {
		return nil, err
	}

	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return staticProvider(cfg), nil
	}
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		Table:    table,
		Loop:     uiLoop,
		Provider: provider,
		Metrics:  m,
		Registry: reg,
	}
	if err := r.applyConfigured(cfg.Interpositions); err != nil {
		return nil, err
	}
	return r, nil
}

func staticProvider(cfg config.Config) *platform.Provider {
	return platform.NewStaticProvider(
		platform.StaticScreen{
			Size:        platform.Size{Width: cfg.Screen.Width, Height: cfg.Screen.Height},
			PixelsPerPt: cfg.Screen.Scale,
		},
		platform.StaticBundle{
			ID:         cfg.Bundle.Identifier,
			Build:      cfg.Bundle.Version,
			Short:      cfg.Bundle.ShortVersion,
			InfoValues: cfg.Bundle.Info,
		},
	)
}

// applyConfigured runs the startup interpositions from the config, in
// order, on the UI loop. The first failure aborts startup.
func (r *Runtime) applyConfigured(list []config.Interposition) error {
	if len(list) == 0 {
		return nil
	}
	var applyErr error
	err := r.onMain(func() {
		for i, ip := range list {
			scope, err := dispatch.ParseScope(ip.Scope)
			if err != nil {
				applyErr = fmt.Errorf("interpositions[%d]: %w", i, err)
				return
			}
			if err := r.Table.InterposeByName(ip.Class, dispatch.Selector(ip.Original), dispatch.Selector(ip.Replacement), scope); err != nil {
				applyErr = fmt.Errorf("interpositions[%d]: %w", i, err)
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return applyErr
}

// onMain runs fn on the UI loop and waits for it.
func (r *Runtime) onMain(fn func()) error {
	return r.Loop.Sync(fn)
}
