package dispatch

import "fmt"

// Selector names an operation on a class.
type Selector string

// Scope selects which method table of a class an operation lives in.
type Scope int

const (
	// ScopeInstance methods are sent to objects.
	ScopeInstance Scope = iota
	// ScopeType methods are sent to the class itself.
	ScopeType
)

func (s Scope) String() string {
	switch s {
	case ScopeInstance:
		return "instance"
	case ScopeType:
		return "type"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ParseScope converts a flag or config value to a Scope.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "", "instance":
		return ScopeInstance, nil
	case "type", "class":
		return ScopeType, nil
	default:
		return ScopeInstance, fmt.Errorf("unknown scope: %q (expected instance or type)", s)
	}
}

func (s Scope) valid() bool {
	return s == ScopeInstance || s == ScopeType
}

// Imp is a method implementation. self is the receiving *Object for instance
// methods and the receiving *Class for type-level methods.
type Imp func(self any, args ...any) any

// Method is one entry of a class's method table. Its implementation can be
// swapped by Interpose, so read it through Imp and Types.
type Method struct {
	Name  Selector
	Scope Scope

	owner *Class
	imp   Imp
	types string
}

// Imp returns the implementation currently bound to the entry.
func (m *Method) Imp() Imp {
	m.owner.table.mu.RLock()
	defer m.owner.table.mu.RUnlock()
	return m.imp
}

// Types returns the signature encoding of the entry ("" if unspecified).
func (m *Method) Types() string {
	m.owner.table.mu.RLock()
	defer m.owner.table.mu.RUnlock()
	return m.types
}

// Owner returns the class whose table holds the entry.
func (m *Method) Owner() *Class {
	return m.owner
}

func compatible(a, b string) bool {
	return a == "" || b == "" || a == b
}
