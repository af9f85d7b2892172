// Package weakref lets a closure refer to its owner without keeping it
// alive.
//
// Weakify captures a non-owning handle; each invocation of the closure calls
// Strongify to get a strong reference for the duration of that invocation,
// and must handle the absent case:
//
//	self := weakref.Weakify("view", v)
//	v.onTap = func() {
//		v, ok := self.Strongify()
//		if !ok {
//			return
//		}
//		v.redraw()
//	}
//
// Guard wraps that check for closures that have nothing to do when the owner
// is gone.
package weakref

import "weak"

// Capture is a named, non-owning reference to an owner of type T. Copies
// share the same target.
type Capture[T any] struct {
	name string
	ptr  weak.Pointer[T]
}

// Weakify returns a Capture of owner. A nil owner yields a Capture that is
// always absent.
func Weakify[T any](name string, owner *T) Capture[T] {
	return Capture[T]{name: name, ptr: weak.Make(owner)}
}

// Name returns the name the capture was created with.
func (c Capture[T]) Name() string { return c.name }

// Strongify returns a strong reference to the owner, or false if the owner
// has already been collected. The returned pointer keeps the owner alive for
// as long as the caller holds it.
func (c Capture[T]) Strongify() (*T, bool) {
	p := c.ptr.Value()
	return p, p != nil
}

// Alive reports whether the owner is still reachable.
func (c Capture[T]) Alive() bool {
	return c.ptr.Value() != nil
}

// Guard returns a closure that materializes the owner on every call and
// runs body with it, or does nothing if the owner is gone.
func Guard[T any](c Capture[T], body func(owner *T)) func() {
	return func() {
		owner, ok := c.Strongify()
		if !ok {
			return
		}
		body(owner)
	}
}

// GuardValue is Guard for closures that produce a result. The boolean is
// false when the owner was absent and body did not run.
func GuardValue[T, R any](c Capture[T], body func(owner *T) R) func() (R, bool) {
	return func() (R, bool) {
		owner, ok := c.Strongify()
		if !ok {
			var zero R
			return zero, false
		}
		return body(owner), true
	}
}
