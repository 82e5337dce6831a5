package typograf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Cache maps a content path to the modification time, in milliseconds,
// observed when the file was last processed.
type Cache struct {
	path    string
	entries map[string]float64
	dirty   bool
}

// LoadCache reads the cache at path. A missing file yields an empty cache;
// a corrupt one is logged and discarded.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: map[string]float64{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read typograf cache: %w", err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		slog.Warn("Ignoring corrupt typograf cache", logfields.Path(path), logfields.Error(err))
		c.entries = map[string]float64{}
	}
	return c, nil
}

// Fresh reports whether key was processed at exactly mtime.
func (c *Cache) Fresh(key string, mtime int64) bool {
	v, ok := c.entries[key]
	return ok && v == float64(mtime)
}

// Put records mtime for key.
func (c *Cache) Put(key string, mtime int64) {
	if v, ok := c.entries[key]; ok && v == float64(mtime) {
		return
	}
	c.entries[key] = float64(mtime)
	c.dirty = true
}

// Len returns the number of entries.
func (c *Cache) Len() int { return len(c.entries) }

// Save writes the cache if it changed since it was loaded.
func (c *Cache) Save() error {
	if !c.dirty {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal typograf cache: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write typograf cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace typograf cache: %w", err)
	}
	c.dirty = false
	return nil
}
