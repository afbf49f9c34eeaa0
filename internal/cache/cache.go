// Package cache persists provider results as one file per request key under a
// directory owned by a single data source.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/encoding/json"

	"financeimporter/internal/datasource"
)

const (
	// DefaultDir is the cache folder used when none is configured,
	// resolved against the working directory at construction.
	DefaultDir = "cache"

	fileExt       = ".json"
	formatVersion = 1
)

// entry is the on-disk envelope around a cached artifact
type entry[T any] struct {
	Version  int       `json:"version"`
	Source   string    `json:"source"`
	Kind     Kind      `json:"kind"`
	Key      string    `json:"key"`
	StoredAt time.Time `json:"stored_at"`
	Payload  T         `json:"payload"`
}

// Store manages the cache directory of one data source.
type Store struct {
	dir    string
	source string
	logger *slog.Logger
}

// New creates a store for source rooted at dir. An empty dir falls back to
// DefaultDir. The directory itself is created lazily on the first write.
func New(source, dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory %q: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:    abs,
		source: source,
		logger: logger.With("source", source, "cache_dir", abs),
	}, nil
}

// Dir returns the absolute cache directory
func (s *Store) Dir() string {
	return s.dir
}

// Key derives the cache key for a request against this store's source
func (s *Store) Key(kind Kind, params ...string) string {
	return ComputeKey(s.source, kind, params...)
}

// Path returns the file backing key
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key)
}

// Load reads the artifact stored under key. A missing file is reported as
// found == false with a nil error; an unreadable one as *CacheCorruptionError.
func Load[T any](s *Store, kind Kind, key string) (value T, found bool, err error) {
	path := s.Path(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return value, false, nil
	}
	if err != nil {
		return value, false, &datasource.CacheCorruptionError{Path: path, Cause: err}
	}

	var e entry[T]
	if err := json.Unmarshal(data, &e); err != nil {
		return value, false, &datasource.CacheCorruptionError{Path: path, Cause: err}
	}
	if e.Version != formatVersion || e.Kind != kind || e.Key != key {
		return value, false, &datasource.CacheCorruptionError{
			Path:  path,
			Cause: fmt.Errorf("envelope mismatch: version=%d kind=%q key=%q", e.Version, e.Kind, e.Key),
		}
	}
	return e.Payload, true, nil
}

// Save writes value under key, replacing any previous artifact. The file is
// written next to its target and renamed into place so readers never see a
// partial write.
func Save[T any](s *Store, kind Kind, key string, value T) error {
	data, err := json.Marshal(entry[T]{
		Version:  formatVersion,
		Source:   s.source,
		Kind:     kind,
		Key:      key,
		StoredAt: time.Now().UTC(),
		Payload:  value,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache entry %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		return fmt.Errorf("failed to commit cache entry %s: %w", key, err)
	}

	s.logger.Debug("cache stored", "kind", kind, "key", key, "bytes", len(data))
	return nil
}

// ReadThrough returns the cached artifact for key, or calls fetch exactly once
// on a miss and stores its result before returning it.
func ReadThrough[T any](ctx context.Context, s *Store, kind Kind, key string, fetch func(context.Context) (T, error)) (T, error) {
	cached, found, err := Load[T](s, kind, key)
	if err != nil {
		return cached, err
	}
	if found {
		s.logger.Debug("cache hit", "kind", kind, "key", key)
		return cached, nil
	}

	s.logger.Debug("cache miss", "kind", kind, "key", key)
	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := Save(s, kind, key, value); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// Clear deletes every file directly under the cache directory and returns how
// many were removed. The directory itself is kept.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list cache directory: %w", err)
	}

	deleted := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, fmt.Errorf("failed to delete %s: %w", e.Name(), err)
		}
		deleted++
	}

	s.logger.Info("cache cleared", "files_deleted", deleted)
	return deleted, nil
}
