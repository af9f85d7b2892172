// Package dispatch implements an explicit, per-class dispatch table with
// method interposition ("swizzling").
//
// A Table owns a set of classes. Each class maps selectors to implementations
// in two scopes: instance methods and type-level methods. Message sends
// resolve a selector by walking the class's ancestor chain.
//
// Interpose exchanges the implementations bound to two selectors on one
// class, following an "add if missing, else exchange" policy:
//
//	table.Interpose(greeter, "sayHi", "sayHiSwizzled", dispatch.ScopeInstance)
//
// After the call, sending sayHi runs what sayHiSwizzled used to run and vice
// versa. When the class only inherits the original selector, a direct entry
// is added to the class itself, so ancestors are never modified.
//
// Interposing the same pair twice swaps the implementations back. This is the
// default RepeatToggle policy; RepeatReject turns the second call into
// ErrAlreadyInterposed instead.
//
// All table mutations happen under a single lock. Reads take the read lock and
// go through a resolution cache that is flushed on every mutation.
package dispatch
