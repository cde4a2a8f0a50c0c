// package cache persists track resolutions so searches are never repeated.
//
// The store is one JSON file mapping normalized track keys to [models.Resolution]
// records. The file is meant to be hand-edited (users re-pick a match by
// changing "selected"), so every write keeps it pretty-printed, and loads
// treat malformed JSON as fatal rather than silently resetting a file the
// user may have touched.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/ytlist/ytlist/internal/models"
	"github.com/ytlist/ytlist/internal/shared"
)

// Store is the on-disk resolution cache. Not safe for concurrent use; ytlist
// runs single-threaded.
type Store struct {
	path    string
	entries map[string]models.Resolution
	logger  *log.Logger
}

// Open loads the cache at path. A missing file is an empty cache; a malformed
// one is a fatal shared.ErrCacheCorrupt so a human can repair or delete it.
func Open(path string, logger *log.Logger) (*Store, error) {
	store := &Store{
		path:    path,
		entries: make(map[string]models.Resolution),
		logger:  logger,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if err := json.Unmarshal(data, &store.entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCacheCorrupt, path, err)
	}

	logger.Debug("cache loaded", "path", path, "entries", len(store.entries))
	return store, nil
}

// Get returns the resolution for a track key.
func (s *Store) Get(key string) (models.Resolution, bool) {
	res, ok := s.entries[key]
	return res, ok
}

// Has reports whether a key is cached.
func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of cached resolutions.
func (s *Store) Len() int {
	return len(s.entries)
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// All returns a copy of every cached resolution keyed by track key.
func (s *Store) All() map[string]models.Resolution {
	out := make(map[string]models.Resolution, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Put stores a resolution and persists the whole file. Persisting on every
// put means an interrupted batch keeps everything resolved so far.
func (s *Store) Put(key string, res models.Resolution) error {
	s.entries[key] = res
	return s.persist()
}

// SetSelected updates the chosen match index for a cached key and persists.
// The index must point at an existing match.
func (s *Store) SetSelected(key string, index int) error {
	res, ok := s.entries[key]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrNotResolved, key)
	}
	if index < 0 || index >= len(res.Matches) {
		return fmt.Errorf("%w: selected index %d out of range for %s (have %d matches)", shared.ErrInvalidArgument, index, key, len(res.Matches))
	}
	res.Selected = index
	s.entries[key] = res
	return s.persist()
}

// persist writes the full cache atomically: marshal to a temp file in the
// same directory, then rename over the target. A crash mid-write never
// leaves a torn file.
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	s.logger.Debug("cache persisted", "path", s.path, "entries", len(s.entries))
	return nil
}
