package dispatch

import (
	"fmt"
)

// Interpose exchanges the implementations bound to original and replacement
// on c, in the given scope.
//
// Both selectors must resolve on c or one of its ancestors. If c only
// inherits original, a direct entry for original is added to c bound to the
// replacement implementation, and replacement is rebound on c to the
// inherited original implementation. Otherwise the two entries are exchanged
// in place. Ancestor tables are never modified.
//
// Calling Interpose again for the same pair (in either order) exchanges the
// bindings back under RepeatToggle, or fails with ErrAlreadyInterposed under
// RepeatReject.
func (t *Table) Interpose(c *Class, original, replacement Selector, scope Scope) error {
	if c == nil || c.table != t {
		return fmt.Errorf("interpose %s/%s: class is not registered in this table", original, replacement)
	}
	if !scope.valid() {
		return fmt.Errorf("interpose %s.%s: %w", c.name, original, ErrInvalidScope)
	}
	if original == replacement {
		return fmt.Errorf("interpose %s.%s: %w", c.name, original, ErrSameSelector)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	origM := c.resolveLocked(scope, original)
	if origM == nil {
		t.metrics.Interposition(c.name, scope.String(), "unresolved")
		return &ResolutionError{Class: c.name, Selector: original, Scope: scope}
	}
	replM := c.resolveLocked(scope, replacement)
	if replM == nil {
		t.metrics.Interposition(c.name, scope.String(), "unresolved")
		return &ResolutionError{Class: c.name, Selector: replacement, Scope: scope}
	}
	if !compatible(origM.types, replM.types) {
		t.metrics.Interposition(c.name, scope.String(), "incompatible")
		return &SignatureError{
			Class:       c.name,
			Original:    original,
			Replacement: replacement,
			Want:        origM.types,
			Got:         replM.types,
		}
	}

	key := newPairKey(c, scope, original, replacement)
	repeat := t.applied[key]
	if repeat && t.policy == RepeatReject {
		t.metrics.Interposition(c.name, scope.String(), "rejected")
		return fmt.Errorf("interpose %s.%s with %s: %w", c.name, original, replacement, ErrAlreadyInterposed)
	}

	origImp, origTypes := origM.imp, origM.types
	replImp, replTypes := replM.imp, replM.types

	outcome := "exchanged"
	if c.addLocked(scope, original, replImp, replTypes) {
		c.replaceLocked(scope, replacement, origImp, origTypes)
		// Carry the original's encoding over even when it is empty, as the
		// exchange path does.
		c.methods[scope][replacement].types = origTypes
		outcome = "added"
	} else {
		if replM.owner != c {
			c.addLocked(scope, replacement, replImp, replTypes)
			replM = c.methods[scope][replacement]
		}
		t.exchangeLocked(origM, replM)
	}

	if repeat {
		delete(t.applied, key)
		outcome = "toggled"
		t.logger.Warn("interposition repeated; pre-patch bindings restored",
			"class", c.name, "scope", scope.String(),
			"original", string(original), "replacement", string(replacement))
	} else {
		t.applied[key] = true
		t.logger.Debug("interposed",
			"class", c.name, "scope", scope.String(),
			"original", string(original), "replacement", string(replacement),
			"path", outcome)
	}
	t.metrics.Interposition(c.name, scope.String(), outcome)
	return nil
}

// InterposeByName looks the class up by name and calls Interpose.
func (t *Table) InterposeByName(class string, original, replacement Selector, scope Scope) error {
	c, ok := t.Class(class)
	if !ok {
		return fmt.Errorf("interpose %s.%s: unknown class %q", class, original, class)
	}
	return t.Interpose(c, original, replacement, scope)
}

// Interposed reports whether the pair is currently exchanged on c.
func (t *Table) Interposed(c *Class, original, replacement Selector, scope Scope) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.applied[newPairKey(c, scope, original, replacement)]
}
