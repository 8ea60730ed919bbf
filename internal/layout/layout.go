// Package layout turns an aggregated data snapshot into an ordered stack of
// visual layers. All geometry is expressed as fractions of the canvas so one
// plan scales to any requested banner size.
package layout

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"guildbanner/internal/aggregate"
	"guildbanner/internal/i18n"
	"guildbanner/internal/theme"
)

type LayerKind int

const (
	KindPanel LayerKind = iota
	KindProgressBar
	KindText
	KindImage
)

// Named images a layer can reference. The compositor receives the decoded
// images under these keys.
const (
	ImageBackground = "background"
	ImageLogo       = "logo"
	ImageBoss       = "boss"
)

// Fixed z-order bands: background, content panels, progress bar, logo,
// secondary icons, text. The text layer always paints last.
const (
	zBackground = 0
	zPanel      = 10
	zProgress   = 20
	zLogo       = 30
	zIcon       = 40
	zText       = 50
)

// descriptionBudget caps the guild description on the banner.
const descriptionBudget = 110

// LayerSpec is one positioned visual element. X, Y, W, H are fractions of
// the canvas width and height; FontSize is a fraction of the canvas height.
type LayerSpec struct {
	Kind LayerKind
	X    float64
	Y    float64
	W    float64
	H    float64
	Z    int

	// Text layers.
	Text     string
	FontSize float64
	Bold     bool
	AX, AY   float64 // anchor inside the text box, 0..1
	Color    color.RGBA

	// Panel and progress layers.
	Fill   color.RGBA
	Border color.RGBA

	// Progress layers.
	Value float64 // 0..1

	// Image layers.
	Image string
}

// Options gates the optional layers. A layer appears only when its flag is
// set and the underlying datum actually resolved.
type Options struct {
	ShowBoss bool
	ShowLogo bool

	// BossIcon reports whether the boss sprite was fetched successfully;
	// without it the boss renders as text only.
	BossIcon bool
}

// OnlinePercent is the canonical online-ratio formula. A guild with no
// members is 0% online, never NaN.
func OnlinePercent(online, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(online) / float64(total) * 100))
}

// Truncate cuts s to at most max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// Plan builds the ordered layer stack for one banner. The returned slice is
// sorted by Z; elements sharing a Z keep table order, which lays text out
// top-to-bottom, left column then right column.
func Plan(data aggregate.Aggregated, pal theme.Palette, labels i18n.Labels, opts Options) []LayerSpec {
	var layers []LayerSpec

	layers = append(layers, LayerSpec{
		Kind: KindImage, Image: ImageBackground,
		X: 0, Y: 0, W: 1, H: 1, Z: zBackground,
	})

	// Content panels.
	layers = append(layers,
		LayerSpec{Kind: KindPanel, X: 0.02, Y: 0.07, W: 0.60, H: 0.86, Z: zPanel,
			Fill: pal.PanelFill, Border: pal.PanelBorder},
		LayerSpec{Kind: KindPanel, X: 0.64, Y: 0.07, W: 0.34, H: 0.86, Z: zPanel,
			Fill: pal.PanelFill, Border: pal.PanelBorder},
	)

	percent := OnlinePercent(data.Guild.PlayersOnline, data.Guild.MembersTotal)
	layers = append(layers, LayerSpec{
		Kind: KindProgressBar, X: 0.66, Y: 0.30, W: 0.30, H: 0.10, Z: zProgress,
		Fill: pal.ProgressFill, Border: pal.ProgressTrack,
		Value: float64(percent) / 100,
	})

	if opts.ShowLogo {
		layers = append(layers, LayerSpec{
			Kind: KindImage, Image: ImageLogo,
			X: 0.525, Y: 0.12, W: 0.08, H: 0.32, Z: zLogo,
		})
	}

	showBossIcon := opts.ShowBoss && !data.BoostedBoss.Degraded && opts.BossIcon
	if showBossIcon {
		layers = append(layers, LayerSpec{
			Kind: KindImage, Image: ImageBoss,
			X: 0.66, Y: 0.52, W: 0.06, H: 0.26, Z: zIcon,
		})
	}

	if data.SpecialEventActive {
		layers = append(layers, LayerSpec{
			Kind: KindPanel, X: 0.80, Y: 0.085, W: 0.17, H: 0.13, Z: zIcon,
			Fill: pal.BadgeFill,
		})
	}

	layers = append(layers, textLayers(data, pal, labels, opts, percent)...)

	sort.SliceStable(layers, func(i, j int) bool { return layers[i].Z < layers[j].Z })
	return layers
}

// textLayers emits the text sub-elements in reading order. Geometry comes
// from one fixed fractional table; locale changes content only.
func textLayers(data aggregate.Aggregated, pal theme.Palette, labels i18n.Labels, opts Options, percent int) []LayerSpec {
	text := func(s string, x, y, size float64, c color.RGBA) LayerSpec {
		return LayerSpec{Kind: KindText, Text: s, X: x, Y: y, FontSize: size, AY: 0.5, Color: c, Z: zText}
	}

	var out []LayerSpec

	// Left column.
	name := LayerSpec{Kind: KindText, Text: data.Guild.Name, X: 0.05, Y: 0.20,
		FontSize: 0.11, Bold: true, AY: 0.5, Color: pal.TextPrimary, Z: zText}
	out = append(out, name)

	out = append(out,
		text(labels.World, 0.05, 0.37, 0.055, pal.TextSecondary),
		text(worldValue(data), 0.30, 0.37, 0.055, pal.TextPrimary),
		text(labels.Members, 0.05, 0.49, 0.055, pal.TextSecondary),
		text(fmt.Sprintf("%d", data.Guild.MembersTotal), 0.30, 0.49, 0.055, pal.TextPrimary),
	)
	if data.Guild.Founded != "" {
		out = append(out,
			text(labels.Founded, 0.05, 0.61, 0.055, pal.TextSecondary),
			text(data.Guild.Founded, 0.30, 0.61, 0.055, pal.TextPrimary),
		)
	}
	if data.Guild.Description != "" {
		out = append(out, text(Truncate(data.Guild.Description, descriptionBudget),
			0.05, 0.76, 0.045, pal.TextSecondary))
	}

	// Right column.
	out = append(out,
		text(labels.Online, 0.66, 0.22, 0.05, pal.TextSecondary),
		LayerSpec{Kind: KindText,
			Text: fmt.Sprintf("%d%% (%d/%d)", percent, data.Guild.PlayersOnline, data.Guild.MembersTotal),
			X:    0.81, Y: 0.35, FontSize: 0.05, AX: 0.5, AY: 0.5, Color: pal.TextPrimary, Z: zText},
	)

	if opts.ShowBoss && !data.BoostedBoss.Degraded {
		bossX := 0.66
		if opts.BossIcon {
			bossX = 0.74
		}
		out = append(out,
			text(labels.BoostedBoss, bossX, 0.57, 0.045, pal.TextSecondary),
			text(data.BoostedBoss.Value.Name, bossX, 0.67, 0.05, pal.TextAccent),
		)
	}

	if !data.NpcLocation.Degraded {
		out = append(out, text(
			labels.NpcLocation+" "+data.NpcLocation.Value.City,
			0.66, 0.85, 0.045, pal.TextSecondary))
	}

	if data.SpecialEventActive {
		out = append(out, LayerSpec{Kind: KindText, Text: labels.SpecialEvent,
			X: 0.885, Y: 0.15, FontSize: 0.04, AX: 0.5, AY: 0.5, Color: pal.BadgeText, Z: zText})
	}

	out = append(out, LayerSpec{Kind: KindText,
		Text: labels.GeneratedAt + " " + data.GeneratedAt,
		X:    0.985, Y: 0.965, FontSize: 0.035, AX: 1, AY: 0.5, Color: pal.TextSecondary, Z: zText})

	return out
}

func worldValue(data aggregate.Aggregated) string {
	w := data.World.Value
	if data.World.Degraded {
		return w.Name
	}
	return fmt.Sprintf("%s (%d online)", w.Name, w.PlayersOnline)
}
