package platform

// StaticScreen is a Screen with fixed metrics.
type StaticScreen struct {
	Size        Size
	PixelsPerPt float64
}

func (s StaticScreen) Bounds() Size   { return s.Size }
func (s StaticScreen) Scale() float64 { return s.PixelsPerPt }

// StaticBundle is a Bundle with fixed metadata.
type StaticBundle struct {
	ID         string
	Build      string
	Short      string
	InfoValues map[string]string
}

func (b StaticBundle) Identifier() string   { return b.ID }
func (b StaticBundle) Version() string      { return b.Build }
func (b StaticBundle) ShortVersion() string { return b.Short }

func (b StaticBundle) Info() map[string]string {
	info := map[string]string{
		"CFBundleIdentifier":         b.ID,
		"CFBundleVersion":            b.Build,
		"CFBundleShortVersionString": b.Short,
	}
	for k, v := range b.InfoValues {
		info[k] = v
	}
	return info
}

// NewStaticProvider returns a Provider backed by fixed values.
func NewStaticProvider(screen StaticScreen, bundle StaticBundle) *Provider {
	return &Provider{Screen: screen, Bundle: bundle}
}
