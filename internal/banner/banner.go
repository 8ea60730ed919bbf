// Package banner is the rendering pipeline entry point: it aggregates the
// provider sources, resolves theme assets, plans the layer stack and
// composites the final PNG.
package banner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"

	_ "image/png"

	"golang.org/x/sync/errgroup"

	"guildbanner/internal/aggregate"
	"guildbanner/internal/assets"
	"guildbanner/internal/i18n"
	"guildbanner/internal/layout"
	"guildbanner/internal/render"
	"guildbanner/internal/theme"
)

// Dimension bounds and defaults for a banner request.
const (
	MinWidth      = 800
	MaxWidth      = 2000
	MinHeight     = 200
	MaxHeight     = 800
	DefaultWidth  = 1200
	DefaultHeight = 300
)

// Request describes one banner to render. Immutable per call.
type Request struct {
	World    string
	Guild    string
	Lang     string
	Theme    string
	ShowBoss bool
	ShowLogo bool
	Width    int
	Height   int
}

// NewRequest returns a request with the documented defaults applied. Theme
// is left empty so the service's configured default theme takes effect.
func NewRequest(world, guild string) Request {
	return Request{
		World:    world,
		Guild:    guild,
		Lang:     i18n.DefaultLang,
		ShowBoss: true,
		ShowLogo: true,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
	}
}

// Normalize fills empty fields with defaults and clamps dimensions into the
// supported bounds.
func (r *Request) Normalize() {
	if r.Lang == "" {
		r.Lang = i18n.DefaultLang
	}
	if r.Theme == "" {
		r.Theme = theme.DefaultName
	}
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Height == 0 {
		r.Height = DefaultHeight
	}
	r.Width = clamp(r.Width, MinWidth, MaxWidth)
	r.Height = clamp(r.Height, MinHeight, MaxHeight)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Provider is the upstream surface the pipeline needs: the five aggregated
// sources plus icon downloads.
type Provider interface {
	aggregate.Source
	FetchImage(ctx context.Context, url string) (image.Image, error)
}

type Service struct {
	provider     Provider
	agg          *aggregate.Aggregator
	assets       *assets.Resolver
	defaultTheme string
	log          *slog.Logger
}

// New builds the pipeline. defaultTheme applies to requests that do not
// name a theme; empty means the built-in default.
func New(provider Provider, resolver *assets.Resolver, defaultTheme string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if defaultTheme == "" {
		defaultTheme = theme.DefaultName
	}
	return &Service{
		provider:     provider,
		agg:          aggregate.New(provider, log),
		assets:       resolver,
		defaultTheme: defaultTheme,
		log:          log,
	}
}

// Generate renders one banner. It returns a complete PNG of exactly the
// requested dimensions, or an error; never a partial image.
func (s *Service) Generate(ctx context.Context, req Request) ([]byte, error) {
	if req.Theme == "" {
		req.Theme = s.defaultTheme
	}
	req.Normalize()
	pal := theme.Get(req.Theme)
	labels := i18n.Get(req.Lang)

	var (
		data        aggregate.Aggregated
		themeAssets assets.ThemeAssets
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = s.agg.Fetch(gctx, req.World, req.Guild, req.Lang)
		return err
	})
	g.Go(func() error {
		var err error
		themeAssets, err = s.assets.Resolve(pal.Name)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	background, err := decodeAsset(themeAssets.Background, "background")
	if err != nil {
		return nil, err
	}
	images := map[string]image.Image{layout.ImageBackground: background}

	if req.ShowLogo {
		logo, err := decodeAsset(themeAssets.Logo, "logo")
		if err != nil {
			return nil, err
		}
		images[layout.ImageLogo] = logo
	}

	bossIcon := s.fetchBossIcon(ctx, req, data)
	if bossIcon != nil {
		images[layout.ImageBoss] = bossIcon
	}

	opts := layout.Options{
		ShowBoss: req.ShowBoss,
		ShowLogo: req.ShowLogo,
		BossIcon: bossIcon != nil,
	}
	layers := layout.Plan(data, pal, labels, opts)

	return render.Render(layers, images, pal, req.Width, req.Height)
}

// fetchBossIcon downloads the boss sprite when the banner will show it. A
// failed download degrades to a text-only boss block.
func (s *Service) fetchBossIcon(ctx context.Context, req Request, data aggregate.Aggregated) image.Image {
	if !req.ShowBoss || data.BoostedBoss.Degraded || data.BoostedBoss.Value.ImageURL == "" {
		return nil
	}
	icon, err := s.provider.FetchImage(ctx, data.BoostedBoss.Value.ImageURL)
	if err != nil {
		s.log.Warn("boss icon degraded", "url", data.BoostedBoss.Value.ImageURL, "err", err)
		return nil
	}
	return icon
}

func decodeAsset(data []byte, name string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s asset: %v", assets.ErrAssetResolution, name, err)
	}
	return img, nil
}
