package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var staticAssets = []string{"./", "./index.html", "./style.css", "./script.js"}

// mapFetcher serves assets from a map and counts hits.
type mapFetcher struct {
	assets map[string][]byte
	hits   map[string]int
}

func newMapFetcher(assets map[string]string) *mapFetcher {
	f := &mapFetcher{assets: make(map[string][]byte), hits: make(map[string]int)}
	for k, v := range assets {
		f.assets[k] = []byte(v)
	}
	return f
}

func (f *mapFetcher) Fetch(ctx context.Context, assetPath string) ([]byte, error) {
	f.hits[assetPath]++
	body, ok := f.assets[assetPath]
	if !ok {
		return nil, errors.New("offline")
	}
	return body, nil
}

func newShell(t *testing.T, fs hackpadfs.FS, fetch Fetcher, version string) *Shell {
	t.Helper()
	return New(fs, fetch, version, staticAssets, nil)
}

func defaultAssets() map[string]string {
	return map[string]string{
		"./":           "root page",
		"./index.html": "index v1",
		"./style.css":  "body {}",
		"./script.js":  "console.log('hi')",
	}
}

func TestInstallCachesAllAssets(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	fetch := newMapFetcher(defaultAssets())
	s := newShell(t, fs, fetch, "dashboard-cache-v1")

	require.NoError(t, s.Install(context.Background()))

	for _, asset := range staticAssets {
		assert.Equal(t, 1, fetch.hits[asset], "asset %q fetched once", asset)
	}
}

func TestInstallIsAllOrNothing(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	assets := defaultAssets()
	delete(assets, "./script.js")
	s := newShell(t, fs, newMapFetcher(assets), "dashboard-cache-v1")

	require.Error(t, s.Install(context.Background()))
}

func TestServeCacheFirstWhenOffline(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	fetch := newMapFetcher(defaultAssets())
	s := newShell(t, fs, fetch, "dashboard-cache-v1")
	ctx := context.Background()

	require.NoError(t, s.Install(ctx))

	// Go offline entirely.
	fetch.assets = map[string][]byte{}

	body, err := s.Serve(ctx, "./style.css")
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(body))
}

func TestServeIndexPrefersNetwork(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	fetch := newMapFetcher(defaultAssets())
	s := newShell(t, fs, fetch, "dashboard-cache-v1")
	ctx := context.Background()

	require.NoError(t, s.Install(ctx))

	fetch.assets["./index.html"] = []byte("index v2")
	body, err := s.Serve(ctx, "./index.html")
	require.NoError(t, err)
	assert.Equal(t, "index v2", string(body), "index is network-first")

	// Offline: fall back to the cached copy.
	fetch.assets = map[string][]byte{}
	body, err = s.Serve(ctx, "./index.html")
	require.NoError(t, err)
	assert.Equal(t, "index v1", string(body))
}

func TestServeUncachedAssetFallsBackToNetwork(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	fetch := newMapFetcher(map[string]string{"./extra.png": "pixels"})
	s := newShell(t, fs, fetch, "dashboard-cache-v1")

	body, err := s.Serve(context.Background(), "./extra.png")
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(body))
}

func TestActivateDropsStaleVersions(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	ctx := context.Background()

	v1 := newShell(t, fs, newMapFetcher(defaultAssets()), "dashboard-cache-v1")
	require.NoError(t, v1.Install(ctx))

	v2 := newShell(t, fs, newMapFetcher(defaultAssets()), "dashboard-cache-v2")
	require.NoError(t, v2.Install(ctx))
	require.NoError(t, v2.Activate(ctx))

	// v1's cache is gone: offline serving through it now fails.
	v1offline := newShell(t, fs, newMapFetcher(nil), "dashboard-cache-v1")
	_, err = v1offline.Serve(ctx, "./style.css")
	require.Error(t, err)

	// v2 still serves from cache.
	v2offline := newShell(t, fs, newMapFetcher(nil), "dashboard-cache-v2")
	body, err := v2offline.Serve(ctx, "./style.css")
	require.NoError(t, err)
	assert.Equal(t, "body {}", string(body))
}

func TestActivateWithNoCachesIsFine(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	s := newShell(t, fs, newMapFetcher(nil), "dashboard-cache-v1")
	require.NoError(t, s.Activate(context.Background()))
}
