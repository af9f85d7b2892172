package dispatch

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mj1618/uiruntime/internal/log"
	"github.com/mj1618/uiruntime/internal/metrics"
)

// RepeatPolicy decides what Interpose does when asked to exchange a pair it
// has already exchanged.
type RepeatPolicy int

const (
	// RepeatToggle performs the exchange again, restoring the pre-patch
	// bindings. A warning is logged.
	RepeatToggle RepeatPolicy = iota
	// RepeatReject refuses the second call with ErrAlreadyInterposed.
	RepeatReject
)

// ParseRepeatPolicy converts a config value to a RepeatPolicy.
func ParseRepeatPolicy(s string) (RepeatPolicy, error) {
	switch s {
	case "", "toggle":
		return RepeatToggle, nil
	case "reject":
		return RepeatReject, nil
	default:
		return RepeatToggle, fmt.Errorf("unknown repeat policy: %q (expected toggle or reject)", s)
	}
}

func (p RepeatPolicy) String() string {
	if p == RepeatReject {
		return "reject"
	}
	return "toggle"
}

// pairKey identifies an interposed selector pair on one class. The two
// selectors are stored in sorted order so that (a, b) and (b, a) collide:
// either direction undoes the other.
type pairKey struct {
	class *Class
	scope Scope
	lo    Selector
	hi    Selector
}

func newPairKey(c *Class, scope Scope, a, b Selector) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{class: c, scope: scope, lo: a, hi: b}
}

// Table is a dispatch table: a registry of classes and their method
// bindings. The zero value is not usable; call NewTable.
type Table struct {
	mu      sync.RWMutex
	classes map[string]*Class
	applied map[pairKey]bool
	cache   *methodCache

	policy  RepeatPolicy
	logger  *slog.Logger
	metrics *metrics.Collectors
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used for interposition events.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) { t.logger = l }
}

// WithMetrics records interpositions and sends in c.
func WithMetrics(c *metrics.Collectors) Option {
	return func(t *Table) { t.metrics = c }
}

// WithRepeatPolicy sets the policy for repeated interpositions.
func WithRepeatPolicy(p RepeatPolicy) Option {
	return func(t *Table) { t.policy = p }
}

// NewTable returns an empty table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		classes: make(map[string]*Class),
		applied: make(map[pairKey]bool),
		cache:   newMethodCache(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.WithComponent("dispatch")
	}
	return t
}

// DefineClass registers a new class. super may be nil for a root class, and
// must belong to this table otherwise.
func (t *Table) DefineClass(name string, super *Class) (*Class, error) {
	if name == "" {
		return nil, fmt.Errorf("define class: empty name")
	}
	if super != nil && super.table != t {
		return nil, fmt.Errorf("define class %s: superclass %s belongs to another table", name, super.name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.classes[name]; ok {
		return nil, fmt.Errorf("define class %s: %w", name, ErrClassExists)
	}
	c := &Class{
		name:  name,
		super: super,
		table: t,
	}
	c.methods[ScopeInstance] = make(map[Selector]*Method)
	c.methods[ScopeType] = make(map[Selector]*Method)
	t.classes[name] = c
	return c, nil
}

// MustDefineClass is DefineClass that panics on error, for static setup.
func (t *Table) MustDefineClass(name string, super *Class) *Class {
	c, err := t.DefineClass(name, super)
	if err != nil {
		panic(err)
	}
	return c
}

// Class looks up a class by name.
func (t *Table) Class(name string) (*Class, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.classes[name]
	return c, ok
}

// Classes returns all classes sorted by name.
func (t *Table) Classes() []*Class {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Class, 0, len(t.classes))
	for _, c := range t.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Policy returns the table's repeat policy.
func (t *Table) Policy() RepeatPolicy {
	return t.policy
}

// CacheStats reports resolution cache activity.
func (t *Table) CacheStats() CacheStats {
	return t.cache.stats()
}

// ExchangeImplementations swaps the implementations (and signature
// encodings) of two method entries. Both must belong to this table.
func (t *Table) ExchangeImplementations(m1, m2 *Method) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exchangeLocked(m1, m2)
}

func (t *Table) exchangeLocked(m1, m2 *Method) {
	m1.imp, m2.imp = m2.imp, m1.imp
	m1.types, m2.types = m2.types, m1.types
	t.cache.flush()
}
