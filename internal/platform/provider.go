package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles the platform services the runtime consumes.
type Provider struct {
	Screen Screen
	Bundle Bundle
}

// ErrUnsupported is returned when no provider has been registered.
var ErrUnsupported = fmt.Errorf("no platform provider registered for %s/%s", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages or by the command
// layer before the first call to NewProvider.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current process.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
