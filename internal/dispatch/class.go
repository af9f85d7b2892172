package dispatch

import (
	"sort"
	"sync"
)

// Class is a named node in the class hierarchy with its own method tables.
type Class struct {
	name    string
	super   *Class
	table   *Table
	methods [2]map[Selector]*Method
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Superclass returns the parent class, or nil for a root class.
func (c *Class) Superclass() *Class { return c.super }

// Table returns the dispatch table the class is registered in.
func (c *Class) Table() *Table { return c.table }

// IsSubclassOf reports whether c is other or descends from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for k := c; k != nil; k = k.super {
		if k == other {
			return true
		}
	}
	return false
}

// AddMethod adds a direct entry for sel. It returns false and changes
// nothing if c already has a direct entry for sel; an inherited entry does
// not count.
func (c *Class) AddMethod(scope Scope, sel Selector, imp Imp, types string) bool {
	if !scope.valid() {
		return false
	}
	c.table.mu.Lock()
	defer c.table.mu.Unlock()
	return c.addLocked(scope, sel, imp, types)
}

func (c *Class) addLocked(scope Scope, sel Selector, imp Imp, types string) bool {
	if _, ok := c.methods[scope][sel]; ok {
		return false
	}
	c.methods[scope][sel] = &Method{Name: sel, Scope: scope, owner: c, imp: imp, types: types}
	c.table.cache.flush()
	return true
}

// ReplaceMethod binds imp to sel directly on c, adding the entry if it does
// not exist. It returns the previous direct implementation, or nil.
func (c *Class) ReplaceMethod(scope Scope, sel Selector, imp Imp, types string) Imp {
	if !scope.valid() {
		return nil
	}
	c.table.mu.Lock()
	defer c.table.mu.Unlock()
	return c.replaceLocked(scope, sel, imp, types)
}

func (c *Class) replaceLocked(scope Scope, sel Selector, imp Imp, types string) Imp {
	if m, ok := c.methods[scope][sel]; ok {
		prev := m.imp
		m.imp = imp
		if types != "" {
			m.types = types
		}
		c.table.cache.flush()
		return prev
	}
	c.addLocked(scope, sel, imp, types)
	return nil
}

// Method resolves sel on c, walking the ancestor chain.
func (c *Class) Method(scope Scope, sel Selector) (*Method, bool) {
	if !scope.valid() {
		return nil, false
	}
	c.table.mu.RLock()
	defer c.table.mu.RUnlock()
	m := c.resolveLocked(scope, sel)
	return m, m != nil
}

func (c *Class) resolveLocked(scope Scope, sel Selector) *Method {
	return c.table.cache.lookup(cacheKey{class: c, scope: scope, sel: sel}, func() *Method {
		for k := c; k != nil; k = k.super {
			if m, ok := k.methods[scope][sel]; ok {
				return m
			}
		}
		return nil
	})
}

// DirectMethod returns c's own entry for sel, ignoring ancestors.
func (c *Class) DirectMethod(scope Scope, sel Selector) (*Method, bool) {
	if !scope.valid() {
		return nil, false
	}
	c.table.mu.RLock()
	defer c.table.mu.RUnlock()
	m, ok := c.methods[scope][sel]
	return m, ok
}

// Methods returns c's direct entries in scope, sorted by selector.
func (c *Class) Methods(scope Scope) []*Method {
	if !scope.valid() {
		return nil
	}
	c.table.mu.RLock()
	defer c.table.mu.RUnlock()
	out := make([]*Method, 0, len(c.methods[scope]))
	for _, m := range c.methods[scope] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Responds reports whether a type-level send of sel would resolve.
func (c *Class) Responds(sel Selector) bool {
	_, ok := c.Method(ScopeType, sel)
	return ok
}

// Send invokes the type-level method sel with c as the receiver.
func (c *Class) Send(sel Selector, args ...any) (any, error) {
	return c.table.send(c, ScopeType, c, sel, args)
}

// New returns a fresh instance of c.
func (c *Class) New() *Object {
	return &Object{class: c}
}

// Object is an instance of a Class.
type Object struct {
	class *Class

	mu     sync.Mutex
	values map[string]any
}

// Class returns the object's class.
func (o *Object) Class() *Class { return o.class }

// Responds reports whether an instance send of sel would resolve.
func (o *Object) Responds(sel Selector) bool {
	_, ok := o.class.Method(ScopeInstance, sel)
	return ok
}

// Send invokes the instance method sel with o as the receiver.
func (o *Object) Send(sel Selector, args ...any) (any, error) {
	return o.class.table.send(o.class, ScopeInstance, o, sel, args)
}

// Value returns per-object state stored under key.
func (o *Object) Value(key string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.values[key]
	return v, ok
}

// SetValue stores per-object state under key.
func (o *Object) SetValue(key string, v any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.values == nil {
		o.values = make(map[string]any)
	}
	o.values[key] = v
}

func (t *Table) send(c *Class, scope Scope, self any, sel Selector, args []any) (any, error) {
	t.mu.RLock()
	m := c.resolveLocked(scope, sel)
	var imp Imp
	if m != nil {
		imp = m.imp
	}
	t.mu.RUnlock()

	if imp == nil {
		t.metrics.Send("unresolved")
		return nil, &ResolutionError{Class: c.name, Selector: sel, Scope: scope}
	}
	t.metrics.Send("resolved")
	return imp(self, args...), nil
}
