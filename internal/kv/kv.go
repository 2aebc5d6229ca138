// Package kv is the dashboard's persistent key-value store, the analog of
// the browser's per-origin localStorage. Values are plain strings; each key
// lives in its own file on a hackpadfs filesystem, which is IndexedDB-backed
// in the browser and memory- or disk-backed elsewhere.
package kv

import (
	"errors"
	"fmt"
	"net/url"
	"path"

	"github.com/hack-pad/hackpadfs"
)

// Store is the profile/theme persistence port.
type Store interface {
	// Get returns the value for key and whether the key exists.
	Get(key string) (string, bool, error)
	// Set writes the value for key, overwriting any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileStore persists each key as a small file under a directory.
type FileStore struct {
	fs  hackpadfs.FS
	dir string
}

// NewFileStore creates the backing directory if needed and returns a store
// rooted there.
func NewFileStore(fs hackpadfs.FS, dir string) (*FileStore, error) {
	if err := hackpadfs.MkdirAll(fs, dir, 0755); err != nil {
		return nil, fmt.Errorf("create kv dir: %w", err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// keyPath escapes the key so arbitrary strings stay valid file names.
func (s *FileStore) keyPath(key string) string {
	return path.Join(s.dir, url.PathEscape(key))
}

func (s *FileStore) Get(key string) (string, bool, error) {
	content, err := hackpadfs.ReadFile(s.fs, s.keyPath(key))
	if errors.Is(err, hackpadfs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return string(content), true, nil
}

func (s *FileStore) Set(key, value string) error {
	if err := hackpadfs.WriteFullFile(s.fs, s.keyPath(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	err := hackpadfs.Remove(s.fs, s.keyPath(key))
	if err != nil && !errors.Is(err, hackpadfs.ErrNotExist) {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}
