package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, base, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, dir, name), data, 0o644))
}

func TestThemeSpecificAssetWins(t *testing.T) {
	base := t.TempDir()
	writeAsset(t, base, "dark", "logo.png", []byte("dark-logo"))
	writeAsset(t, base, "dark", "background.png", []byte("dark-bg"))
	writeAsset(t, base, "default", "logo.png", []byte("default-logo"))
	writeAsset(t, base, "default", "background.png", []byte("default-bg"))

	r := NewResolver([]string{base})
	got, err := r.Resolve("dark")
	require.NoError(t, err)
	assert.Equal(t, []byte("dark-logo"), got.Logo)
	assert.Equal(t, []byte("dark-bg"), got.Background)
}

func TestFallsBackToDefaultAsset(t *testing.T) {
	base := t.TempDir()
	writeAsset(t, base, "default", "logo.png", []byte("default-logo"))
	writeAsset(t, base, "default", "background.png", []byte("default-bg"))

	r := NewResolver([]string{base})
	got, err := r.Resolve("nonexistent-theme")
	require.NoError(t, err)
	assert.Equal(t, []byte("default-logo"), got.Logo)
}

func TestEarlierBaseDirectoryWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeAsset(t, first, "dark", "logo.png", []byte("first"))
	writeAsset(t, second, "dark", "logo.png", []byte("second"))
	writeAsset(t, second, "dark", "background.png", []byte("bg"))

	r := NewResolver([]string{first, second})
	got, err := r.Resolve("dark")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got.Logo)
	assert.Equal(t, []byte("bg"), got.Background)
}

func TestExhaustedCandidatesFail(t *testing.T) {
	r := NewResolver([]string{t.TempDir()})
	_, err := r.Resolve("dark")
	require.ErrorIs(t, err, ErrAssetResolution)
}

func TestResolutionIsCached(t *testing.T) {
	base := t.TempDir()
	writeAsset(t, base, "default", "logo.png", []byte("logo"))
	writeAsset(t, base, "default", "background.png", []byte("bg"))

	r := NewResolver([]string{base})
	_, err := r.Resolve("default")
	require.NoError(t, err)

	// Removing the files must not matter once the theme is cached.
	require.NoError(t, os.RemoveAll(base))
	got, err := r.Resolve("default")
	require.NoError(t, err)
	assert.Equal(t, []byte("logo"), got.Logo)
}
