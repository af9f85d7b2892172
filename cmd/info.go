package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mj1618/uiruntime/internal/output"
	"github.com/mj1618/uiruntime/internal/platform"
)

// InfoResult is the output of the info command.
type InfoResult struct {
	Bundle BundleInfo `yaml:"bundle" json:"bundle"`
	Screen ScreenInfo `yaml:"screen" json:"screen"`
}

// BundleInfo mirrors platform.Bundle.
type BundleInfo struct {
	Identifier   string            `yaml:"identifier"     json:"identifier"`
	Version      string            `yaml:"version"        json:"version"`
	ShortVersion string            `yaml:"short_version"  json:"short_version"`
	Info         map[string]string `yaml:"info,omitempty" json:"info,omitempty"`
}

// ScreenInfo mirrors platform.Screen plus derived line metrics.
type ScreenInfo struct {
	Width                  float64 `yaml:"width"                     json:"width"`
	Height                 float64 `yaml:"height"                    json:"height"`
	Scale                  float64 `yaml:"scale"                     json:"scale"`
	SingleLineWidth        float64 `yaml:"single_line_width"         json:"single_line_width"`
	SingleLineAdjustOffset float64 `yaml:"single_line_adjust_offset" json:"single_line_adjust_offset"`
}

func (r InfoResult) TableHeader() []string { return []string{"Property", "Value"} }

func (r InfoResult) TableRows() [][]string {
	rows := [][]string{
		{"Bundle ID", r.Bundle.Identifier},
		{"Version", r.Bundle.Version},
		{"Short version", r.Bundle.ShortVersion},
		{"Screen", fmt.Sprintf("%gx%g@%g", r.Screen.Width, r.Screen.Height, r.Screen.Scale)},
		{"Single line width", fmt.Sprintf("%g", r.Screen.SingleLineWidth)},
	}
	keys := make([]string, 0, len(r.Bundle.Info))
	for k := range r.Bundle.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{k, r.Bundle.Info[k]})
	}
	return rows
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show bundle metadata and screen metrics",
	Long: `Show the bundle metadata and main-screen metrics reported by the platform
provider, including the width of a one-pixel line in points.

Examples:
  uiruntime info
  uiruntime info --screen 390x844@3`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().String("screen", "", "Override screen metrics: WIDTHxHEIGHT[@SCALE]")
}

func runInfo(cmd *cobra.Command, args []string) error {
	provider := rt.Provider
	if spec, _ := cmd.Flags().GetString("screen"); spec != "" {
		parsed, err := platform.ParseScreenSpec(spec)
		if err != nil {
			return err
		}
		provider = &platform.Provider{
			Screen: platform.StaticScreen{Size: parsed.Size, PixelsPerPt: parsed.Scale},
			Bundle: provider.Bundle,
		}
	}
	return output.Fprint(cmd.OutOrStdout(), describePlatform(provider))
}

func describePlatform(p *platform.Provider) InfoResult {
	bounds := p.Screen.Bounds()
	return InfoResult{
		Bundle: BundleInfo{
			Identifier:   p.Bundle.Identifier(),
			Version:      p.Bundle.Version(),
			ShortVersion: p.Bundle.ShortVersion(),
			Info:         p.Bundle.Info(),
		},
		Screen: ScreenInfo{
			Width:                  bounds.Width,
			Height:                 bounds.Height,
			Scale:                  p.Screen.Scale(),
			SingleLineWidth:        platform.SingleLineWidth(p.Screen),
			SingleLineAdjustOffset: platform.SingleLineAdjustOffset(p.Screen),
		},
	}
}
