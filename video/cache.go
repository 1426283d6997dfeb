package video

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Cache is a persisted map from file path to FeatureRecord, invalidated by
// (file size, modification time). One instance lives for one detection
// run: Load scopes it to the scan root, workers hit Lookup/Store
// concurrently, Save merges back into the full on-disk map.
type Cache struct {
	mu      sync.Mutex
	file    string
	entries map[string]*FeatureRecord
	log     zerolog.Logger
}

// NewCache creates an empty cache backed by the given store file.
func NewCache(file string, log zerolog.Logger) *Cache {
	return &Cache{
		file:    file,
		entries: make(map[string]*FeatureRecord),
		log:     log.With().Str("component", "cache").Logger(),
	}
}

// Load reads the store file and keeps only entries whose path is under
// root (case-insensitive comparison). A missing or corrupt store file is
// recoverable: the cache starts empty and the run proceeds.
func (c *Cache) Load(root string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*FeatureRecord)

	all, err := readStore(c.file)
	if err != nil {
		c.log.Warn().Err(err).Str("file", c.file).Msg("cache unreadable, starting empty")
		return nil
	}

	prefix := strings.ToLower(filepath.Clean(root))
	for path, rec := range all {
		if strings.HasPrefix(strings.ToLower(path), prefix) {
			c.entries[path] = rec
		}
	}
	c.log.Debug().Int("entries", len(c.entries)).Str("root", root).Msg("cache loaded")
	return nil
}

// Save merges the in-memory scoped entries back into the latest on-disk
// map, preserving entries for other directories, and writes the result
// atomically.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := readStore(c.file)
	if err != nil {
		all = make(map[string]*FeatureRecord)
	}
	for path, rec := range c.entries {
		all[path] = rec
	}

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp := c.file + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp, c.file); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	c.log.Debug().Int("entries", len(c.entries)).Msg("cache saved")
	return nil
}

// Lookup returns a copy of the cached record for path if its validity key
// still matches the file on disk. A size or mtime change is a miss: the
// stale entry will be overwritten by the next Store.
func (c *Cache) Lookup(path string, size int64, modified time.Time) (*FeatureRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	if rec.FileSize != size || !rec.LastModified.Equal(modified) {
		return nil, false
	}
	return rec.Clone(), true
}

// Store inserts or replaces the record for rec.Path. The cache keeps its
// own copy so the caller may keep mutating the original.
func (c *Cache) Store(rec *FeatureRecord) {
	if rec == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rec.Path] = rec.Clone()
}

// Len reports the number of in-memory entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func readStore(file string) (map[string]*FeatureRecord, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*FeatureRecord), nil
		}
		return nil, err
	}
	var all map[string]*FeatureRecord
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = make(map[string]*FeatureRecord)
	}
	return all, nil
}
