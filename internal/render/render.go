// Package render composites an ordered layer stack onto a canvas and
// encodes the result as PNG. Given identical inputs the output bytes are
// identical: nothing here reads the clock or a random source.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"guildbanner/internal/layout"
	"guildbanner/internal/theme"
)

// ErrComposition means the image-assembly step could not produce valid
// output. It aborts the request; a layer is never silently skipped.
var ErrComposition = errors.New("composition failed")

// Render paints layers in ascending z-order onto a width×height canvas
// filled with the palette's background treatment, then encodes PNG bytes.
func Render(layers []layout.LayerSpec, images map[string]image.Image, pal theme.Palette, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid canvas %dx%d", ErrComposition, width, height)
	}

	w, h := float64(width), float64(height)
	dc := gg.NewContext(width, height)

	grad := gg.NewLinearGradient(0, 0, 0, h)
	grad.AddColorStop(0, pal.BackgroundTop)
	grad.AddColorStop(1, pal.BackgroundBottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	ordered := make([]layout.LayerSpec, len(layers))
	copy(ordered, layers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Z < ordered[j].Z })

	for i, l := range ordered {
		if err := drawLayer(dc, l, images, w, h); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrComposition, err)
	}
	return buf.Bytes(), nil
}

func drawLayer(dc *gg.Context, l layout.LayerSpec, images map[string]image.Image, w, h float64) error {
	x, y := l.X*w, l.Y*h
	lw, lh := l.W*w, l.H*h

	switch l.Kind {
	case layout.KindPanel:
		if lw <= 0 || lh <= 0 {
			return fmt.Errorf("%w: zero-area panel", ErrComposition)
		}
		radius := min(lw, lh) * 0.15
		dc.SetColor(l.Fill)
		dc.DrawRoundedRectangle(x, y, lw, lh, radius)
		dc.Fill()
		if l.Border.A > 0 {
			dc.SetColor(l.Border)
			dc.SetLineWidth(max(1, h/150))
			dc.DrawRoundedRectangle(x, y, lw, lh, radius)
			dc.Stroke()
		}

	case layout.KindProgressBar:
		if lw <= 0 || lh <= 0 {
			return fmt.Errorf("%w: zero-area progress bar", ErrComposition)
		}
		value := l.Value
		if value < 0 {
			value = 0
		}
		if value > 1 {
			value = 1
		}
		radius := lh / 2
		dc.SetColor(l.Border)
		dc.DrawRoundedRectangle(x, y, lw, lh, radius)
		dc.Fill()
		if fill := lw * value; fill > 0 {
			if fill < lh {
				fill = lh // keep the rounded cap visible at low percentages
			}
			dc.SetColor(l.Fill)
			dc.DrawRoundedRectangle(x, y, fill, lh, radius)
			dc.Fill()
		}

	case layout.KindText:
		if l.Text == "" {
			return fmt.Errorf("%w: empty text layer", ErrComposition)
		}
		dc.SetFontFace(face(l.FontSize*h, l.Bold))
		dc.SetColor(l.Color)
		dc.DrawStringAnchored(l.Text, x, y, l.AX, l.AY)

	case layout.KindImage:
		img, ok := images[l.Image]
		if !ok || img == nil {
			return fmt.Errorf("%w: image %q not provided", ErrComposition, l.Image)
		}
		tw, th := int(lw), int(lh)
		if tw <= 0 || th <= 0 {
			return fmt.Errorf("%w: zero-area image %q", ErrComposition, l.Image)
		}
		if l.Image == layout.ImageBackground {
			// The background stretches to the full canvas.
			dc.DrawImage(scaleTo(img, tw, th), int(x), int(y))
			return nil
		}
		dw, dh, ox, oy := fitInside(img, tw, th)
		dc.DrawImage(scaleTo(img, dw, dh), int(x)+ox, int(y)+oy)

	default:
		return fmt.Errorf("%w: unknown layer kind %d", ErrComposition, l.Kind)
	}
	return nil
}

// fitInside scales the image bounds to fit a tw×th box preserving aspect
// ratio and centers it, returning the target size and offset.
func fitInside(img image.Image, tw, th int) (dw, dh, ox, oy int) {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	if iw <= 0 || ih <= 0 {
		return tw, th, 0, 0
	}
	scale := min(float64(tw)/float64(iw), float64(th)/float64(ih))
	dw = int(float64(iw) * scale)
	dh = int(float64(ih) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return dw, dh, (tw - dw) / 2, (th - dh) / 2
}

func scaleTo(img image.Image, w, h int) *image.RGBA {
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		if rgba, ok := img.(*image.RGBA); ok {
			return rgba
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
