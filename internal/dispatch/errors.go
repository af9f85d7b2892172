package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrResolution matches every *ResolutionError.
	ErrResolution = errors.New("selector does not resolve")

	// ErrAlreadyInterposed is returned by Interpose under RepeatReject when the
	// pair has already been exchanged.
	ErrAlreadyInterposed = errors.New("selector pair already interposed")

	// ErrClassExists is returned when defining a class name twice.
	ErrClassExists = errors.New("class already defined")

	// ErrSameSelector is returned when Interpose is asked to exchange a
	// selector with itself.
	ErrSameSelector = errors.New("original and replacement selectors are identical")

	// ErrInvalidScope is returned for a Scope value outside the known set.
	ErrInvalidScope = errors.New("invalid scope")
)

// ResolutionError reports a selector that resolves neither on a class nor on
// any of its ancestors.
type ResolutionError struct {
	Class    string
	Selector Selector
	Scope    Scope
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s selector %q does not resolve on %s or its ancestors", e.Scope, e.Selector, e.Class)
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// SignatureError reports an interposition between two methods whose
// signature encodings differ.
type SignatureError struct {
	Class       string
	Original    Selector
	Replacement Selector
	Want, Got   string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("cannot interpose %s.%s with %s: signature %q does not match %q",
		e.Class, e.Original, e.Replacement, e.Got, e.Want)
}
