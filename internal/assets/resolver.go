// Package assets resolves theme-specific binary assets (logo, background)
// across an ordered list of candidate base directories.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrAssetResolution means no candidate location yielded a usable asset.
var ErrAssetResolution = errors.New("asset resolution failed")

const (
	logoFile       = "logo.png"
	backgroundFile = "background.png"

	// defaultDir holds the generic fallback assets inside each base dir.
	defaultDir = "default"
)

// ThemeAssets is the resolved binary pair for one theme.
type ThemeAssets struct {
	Logo       []byte
	Background []byte
}

// Resolver looks up theme assets with a fixed fallback chain and caches the
// result for the process lifetime; assets do not change at runtime.
type Resolver struct {
	bases []string

	mu    sync.RWMutex
	cache map[string]ThemeAssets
}

func NewResolver(bases []string) *Resolver {
	return &Resolver{
		bases: bases,
		cache: make(map[string]ThemeAssets),
	}
}

// Resolve returns the logo and background for theme. Resolution order per
// asset: the theme-specific file in every base directory, then the generic
// default file in every base directory. First readable candidate wins.
func (r *Resolver) Resolve(theme string) (ThemeAssets, error) {
	r.mu.RLock()
	cached, ok := r.cache[theme]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	logo, err := r.resolveFile(theme, logoFile)
	if err != nil {
		return ThemeAssets{}, err
	}
	background, err := r.resolveFile(theme, backgroundFile)
	if err != nil {
		return ThemeAssets{}, err
	}

	resolved := ThemeAssets{Logo: logo, Background: background}

	r.mu.Lock()
	r.cache[theme] = resolved
	r.mu.Unlock()

	return resolved, nil
}

func (r *Resolver) resolveFile(theme, name string) ([]byte, error) {
	for _, dir := range []string{theme, defaultDir} {
		for _, base := range r.bases {
			data, err := os.ReadFile(filepath.Join(base, dir, name))
			if err == nil && len(data) > 0 {
				return data, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no candidate for %s/%s in %v", ErrAssetResolution, theme, name, r.bases)
}
