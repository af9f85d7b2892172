// Package metrics holds the Prometheus collectors shared by the dispatch
// table and the main-thread loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups every collector the runtime reports. A nil *Collectors
// is valid and records nothing.
type Collectors struct {
	WorkItems      *prometheus.CounterVec
	WorkPanics     prometheus.Counter
	QueueDepth     prometheus.Gauge
	Interpositions *prometheus.CounterVec
	Sends          *prometheus.CounterVec
}

// New creates unregistered collectors.
func New() *Collectors {
	return &Collectors{
		WorkItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uiruntime_work_items_total",
				Help: "Work items executed by the main-thread loop",
			},
			[]string{"mode", "path"}, // path: "inline" or "queued"
		),
		WorkPanics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "uiruntime_work_panics_total",
				Help: "Work items that panicked on the main-thread loop",
			},
		),
		QueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "uiruntime_queue_depth",
				Help: "Work items waiting on the main-thread loop",
			},
		),
		Interpositions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uiruntime_interpositions_total",
				Help: "Interpose calls by outcome",
			},
			[]string{"class", "scope", "outcome"},
		),
		Sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uiruntime_sends_total",
				Help: "Message sends by resolution outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Register registers all collectors with reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.WorkItems, c.WorkPanics, c.QueueDepth, c.Interpositions, c.Sends} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// WorkItem counts one executed work item.
func (c *Collectors) WorkItem(mode, path string) {
	if c == nil {
		return
	}
	c.WorkItems.WithLabelValues(mode, path).Inc()
}

// Panic counts one recovered work-item panic.
func (c *Collectors) Panic() {
	if c == nil {
		return
	}
	c.WorkPanics.Inc()
}

// SetQueueDepth records the number of pending work items.
func (c *Collectors) SetQueueDepth(n int) {
	if c == nil {
		return
	}
	c.QueueDepth.Set(float64(n))
}

// Interposition counts one Interpose call.
func (c *Collectors) Interposition(class, scope, outcome string) {
	if c == nil {
		return
	}
	c.Interpositions.WithLabelValues(class, scope, outcome).Inc()
}

// Send counts one message send.
func (c *Collectors) Send(outcome string) {
	if c == nil {
		return
	}
	c.Sends.WithLabelValues(outcome).Inc()
}
