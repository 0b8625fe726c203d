package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/forumsite/internal/forum"
)

// JSONCache stores one JSON file per entity kind in a directory.
type JSONCache struct {
	dir string
}

// NewJSONCache creates a JSON cache in dir.
func NewJSONCache(dir string) *JSONCache { return &JSONCache{dir: dir} }

func (c *JSONCache) Backend() string  { return BackendJSON }
func (c *JSONCache) Location() string { return c.dir }

type jsonFile[T any] struct {
	Version int        `json:"version"`
	Kind    string     `json:"kind"`
	Entries []entry[T] `json:"entries"`
}

const jsonFormatVersion = 1

// Save writes all four files. Each file is replaced atomically.
func (c *JSONCache) Save(_ context.Context, store *forum.Store) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return cacheFailure(err, "create cache directory", c.dir)
	}
	s := snapshotOf(store)
	writes := []struct {
		kind string
		v    any
	}{
		{KindDiscussions, jsonFile[forum.Discussion]{jsonFormatVersion, KindDiscussions, s.Discussions}},
		{KindComments, jsonFile[[]forum.Comment]{jsonFormatVersion, KindComments, s.Comments}},
		{KindMembers, jsonFile[forum.Member]{jsonFormatVersion, KindMembers, s.Members}},
		{KindCategories, jsonFile[forum.Category]{jsonFormatVersion, KindCategories, s.Categories}},
	}
	for _, w := range writes {
		if err := writeJSONAtomic(c.path(w.kind), w.v); err != nil {
			return cacheFailure(err, "write cache file", c.path(w.kind))
		}
	}
	return nil
}

// Load reads all four files. A missing or unreadable file fails the load.
func (c *JSONCache) Load(_ context.Context) (*forum.Store, error) {
	var s snapshot
	var err error
	if s.Discussions, err = readEntries[forum.Discussion](c.path(KindDiscussions), KindDiscussions); err != nil {
		return nil, cacheFailure(err, "read cache", c.dir)
	}
	if s.Comments, err = readEntries[[]forum.Comment](c.path(KindComments), KindComments); err != nil {
		return nil, cacheFailure(err, "read cache", c.dir)
	}
	if s.Members, err = readEntries[forum.Member](c.path(KindMembers), KindMembers); err != nil {
		return nil, cacheFailure(err, "read cache", c.dir)
	}
	if s.Categories, err = readEntries[forum.Category](c.path(KindCategories), KindCategories); err != nil {
		return nil, cacheFailure(err, "read cache", c.dir)
	}
	store, err := s.restore()
	if err != nil {
		return nil, cacheFailure(err, "invalid cache contents", c.dir)
	}
	return store, nil
}

func (c *JSONCache) path(kind string) string {
	return filepath.Join(c.dir, kind+".json")
}

func readEntries[T any](path, kind string) ([]entry[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f jsonFile[T]
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if f.Kind != kind {
		return nil, fmt.Errorf("%s holds %q entries, want %q", filepath.Base(path), f.Kind, kind)
	}
	if f.Version != jsonFormatVersion {
		return nil, fmt.Errorf("%s has format version %d, want %d", filepath.Base(path), f.Version, jsonFormatVersion)
	}
	return f.Entries, nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
