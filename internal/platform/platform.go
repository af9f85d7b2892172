// Package platform defines the device and bundle services the runtime consumes
// but does not implement: screen metrics and application bundle metadata.
package platform

// Screen reports the metrics of the main display.
type Screen interface {
	// Bounds returns the screen size in points.
	Bounds() Size

	// Scale returns the number of pixels per point.
	Scale() float64
}

// Bundle reports metadata of the running application bundle.
type Bundle interface {
	Identifier() string
	Version() string
	ShortVersion() string

	// Info returns the raw info dictionary. Callers must not modify it.
	Info() map[string]string
}
