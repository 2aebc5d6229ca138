// Package shell is the offline cache layer for the dashboard's static
// assets: a versioned, cache-first store with network fallback, mirroring
// the page's service worker. Bumping the version invalidates every older
// cache on the next activation.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/hack-pad/hackpadfs"
)

// Fetcher retrieves an asset from the network.
type Fetcher interface {
	Fetch(ctx context.Context, assetPath string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, assetPath string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, assetPath string) ([]byte, error) {
	return f(ctx, assetPath)
}

const cacheRoot = "cache"

// Shell caches a fixed asset list under a version-prefixed directory.
type Shell struct {
	version string
	assets  []string
	fs      hackpadfs.FS
	fetch   Fetcher
	log     *slog.Logger
}

// New builds a shell for one cache version. The logger may be nil.
func New(fs hackpadfs.FS, fetch Fetcher, version string, assets []string, log *slog.Logger) *Shell {
	if log == nil {
		log = slog.Default()
	}
	return &Shell{
		version: version,
		assets:  assets,
		fs:      fs,
		fetch:   fetch,
		log:     log,
	}
}

// Version returns the shell's cache version string.
func (s *Shell) Version() string {
	return s.version
}

func (s *Shell) dir() string {
	return path.Join(cacheRoot, url.PathEscape(s.version))
}

func (s *Shell) assetFile(assetPath string) string {
	return path.Join(s.dir(), url.PathEscape(assetPath))
}

// Install fetches and caches every static asset. Like cache.addAll, it is
// all-or-nothing: any fetch failure aborts the install.
func (s *Shell) Install(ctx context.Context) error {
	if err := hackpadfs.MkdirAll(s.fs, s.dir(), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	for _, asset := range s.assets {
		body, err := s.fetch.Fetch(ctx, asset)
		if err != nil {
			return fmt.Errorf("install %q: %w", asset, err)
		}
		if err := hackpadfs.WriteFullFile(s.fs, s.assetFile(asset), body, 0644); err != nil {
			return fmt.Errorf("cache %q: %w", asset, err)
		}
	}
	s.log.Debug("shell installed", "version", s.version, "assets", len(s.assets))
	return nil
}

// Activate deletes every cache directory belonging to another version.
func (s *Shell) Activate(ctx context.Context) error {
	entries, err := hackpadfs.ReadDir(s.fs, cacheRoot)
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list caches: %w", err)
	}

	current := url.PathEscape(s.version)
	for _, entry := range entries {
		if entry.Name() == current {
			continue
		}
		if err := removeAll(s.fs, path.Join(cacheRoot, entry.Name())); err != nil {
			return fmt.Errorf("drop stale cache %q: %w", entry.Name(), err)
		}
		s.log.Debug("stale cache dropped", "name", entry.Name())
	}
	return nil
}

// Serve returns an asset body. The index page is network-first with cache
// fallback so UI updates land promptly; everything else is cache-first
// with network fallback.
func (s *Shell) Serve(ctx context.Context, assetPath string) ([]byte, error) {
	if strings.HasSuffix(assetPath, "index.html") {
		body, err := s.fetch.Fetch(ctx, assetPath)
		if err == nil {
			return body, nil
		}
		cached, cacheErr := hackpadfs.ReadFile(s.fs, s.assetFile(assetPath))
		if cacheErr != nil {
			return nil, fmt.Errorf("serve %q: %w", assetPath, err)
		}
		return cached, nil
	}

	cached, err := hackpadfs.ReadFile(s.fs, s.assetFile(assetPath))
	if err == nil {
		return cached, nil
	}
	body, fetchErr := s.fetch.Fetch(ctx, assetPath)
	if fetchErr != nil {
		return nil, fmt.Errorf("serve %q: %w", assetPath, fetchErr)
	}
	return body, nil
}

// removeAll deletes a file or directory tree. hackpadfs only exposes
// single-entry Remove, so directories are walked bottom-up.
func removeAll(fsys hackpadfs.FS, name string) error {
	entries, err := hackpadfs.ReadDir(fsys, name)
	if err == nil {
		for _, entry := range entries {
			if err := removeAll(fsys, path.Join(name, entry.Name())); err != nil {
				return err
			}
		}
	}
	return hackpadfs.Remove(fsys, name)
}
