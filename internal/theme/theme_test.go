package theme

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownThemeFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Get(DefaultName), Get("theme-of-the-month"))
}

func TestEveryPaletteIsComplete(t *testing.T) {
	zero := color.RGBA{}
	for name, p := range palettes {
		assert.Equal(t, name, p.Name)
		assert.NotEqual(t, zero, p.BackgroundTop, name)
		assert.NotEqual(t, zero, p.BackgroundBottom, name)
		assert.NotEqual(t, zero, p.PanelFill, name)
		assert.NotEqual(t, zero, p.PanelBorder, name)
		assert.NotEqual(t, zero, p.ProgressTrack, name)
		assert.NotEqual(t, zero, p.ProgressFill, name)
		assert.NotEqual(t, zero, p.TextPrimary, name)
		assert.NotEqual(t, zero, p.TextSecondary, name)
		assert.NotEqual(t, zero, p.TextAccent, name)
		assert.NotEqual(t, zero, p.BadgeFill, name)
		assert.NotEqual(t, zero, p.BadgeText, name)
	}
}

func TestNamesIsSortedAndComplete(t *testing.T) {
	got := Names()
	assert.Equal(t, []string{"dark", "default", "light", "tibia"}, got)
}
