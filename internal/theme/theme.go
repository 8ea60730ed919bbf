// Package theme maps theme names to complete color palettes. An unknown
// theme resolves to the default palette, never to a partial one.
package theme

import (
	"image/color"
	"sort"
)

// DefaultName is the fallback theme.
const DefaultName = "default"

// Palette is the full color set a banner needs. Every named theme fills
// every field.
type Palette struct {
	Name string

	// Background treatment: a vertical gradient from BackgroundTop to
	// BackgroundBottom. Solid backgrounds use the same color twice.
	BackgroundTop    color.RGBA
	BackgroundBottom color.RGBA

	PanelFill   color.RGBA
	PanelBorder color.RGBA

	ProgressTrack color.RGBA
	ProgressFill  color.RGBA

	TextPrimary   color.RGBA
	TextSecondary color.RGBA
	TextAccent    color.RGBA

	BadgeFill color.RGBA
	BadgeText color.RGBA
}

var palettes = map[string]Palette{
	"default": {
		Name:             "default",
		BackgroundTop:    color.RGBA{24, 30, 44, 255},
		BackgroundBottom: color.RGBA{10, 13, 20, 255},
		PanelFill:        color.RGBA{255, 255, 255, 18},
		PanelBorder:      color.RGBA{255, 255, 255, 48},
		ProgressTrack:    color.RGBA{255, 255, 255, 40},
		ProgressFill:     color.RGBA{86, 180, 101, 255},
		TextPrimary:      color.RGBA{240, 240, 245, 255},
		TextSecondary:    color.RGBA{168, 174, 190, 255},
		TextAccent:       color.RGBA{235, 190, 90, 255},
		BadgeFill:        color.RGBA{170, 60, 57, 255},
		BadgeText:        color.RGBA{245, 240, 235, 255},
	},
	"dark": {
		Name:             "dark",
		BackgroundTop:    color.RGBA{14, 14, 16, 255},
		BackgroundBottom: color.RGBA{5, 5, 6, 255},
		PanelFill:        color.RGBA{255, 255, 255, 12},
		PanelBorder:      color.RGBA{255, 255, 255, 30},
		ProgressTrack:    color.RGBA{255, 255, 255, 32},
		ProgressFill:     color.RGBA{70, 130, 180, 255},
		TextPrimary:      color.RGBA{225, 225, 230, 255},
		TextSecondary:    color.RGBA{140, 145, 155, 255},
		TextAccent:       color.RGBA{120, 190, 230, 255},
		BadgeFill:        color.RGBA{150, 50, 50, 255},
		BadgeText:        color.RGBA{235, 230, 225, 255},
	},
	"light": {
		Name:             "light",
		BackgroundTop:    color.RGBA{244, 243, 238, 255},
		BackgroundBottom: color.RGBA{222, 219, 210, 255},
		PanelFill:        color.RGBA{0, 0, 0, 14},
		PanelBorder:      color.RGBA{0, 0, 0, 44},
		ProgressTrack:    color.RGBA{0, 0, 0, 30},
		ProgressFill:     color.RGBA{64, 140, 80, 255},
		TextPrimary:      color.RGBA{32, 34, 40, 255},
		TextSecondary:    color.RGBA{92, 96, 106, 255},
		TextAccent:       color.RGBA{150, 110, 30, 255},
		BadgeFill:        color.RGBA{170, 60, 57, 255},
		BadgeText:        color.RGBA{250, 247, 242, 255},
	},
	"tibia": {
		Name:             "tibia",
		BackgroundTop:    color.RGBA{62, 48, 34, 255},
		BackgroundBottom: color.RGBA{36, 27, 18, 255},
		PanelFill:        color.RGBA{255, 240, 210, 22},
		PanelBorder:      color.RGBA{210, 180, 130, 90},
		ProgressTrack:    color.RGBA{0, 0, 0, 70},
		ProgressFill:     color.RGBA{190, 150, 60, 255},
		TextPrimary:      color.RGBA{242, 230, 205, 255},
		TextSecondary:    color.RGBA{196, 180, 150, 255},
		TextAccent:       color.RGBA{230, 180, 80, 255},
		BadgeFill:        color.RGBA{128, 40, 36, 255},
		BadgeText:        color.RGBA{245, 235, 215, 255},
	},
}

// Get returns the palette for name, falling back to the default theme.
func Get(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[DefaultName]
}

// Names lists the known themes in a stable order.
func Names() []string {
	out := make([]string, 0, len(palettes))
	for name := range palettes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
