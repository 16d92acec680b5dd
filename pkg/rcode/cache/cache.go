// Package cache persists decoded type information to disk, keyed by
// source file path and modification time, so that re-running a batch
// decode over an unchanged tree can skip re-parsing files it has already
// seen. The decoder itself never touches this package; it is purely
// ambient tooling around it.
package cache

import (
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/riverside-software/rcode/pkg/rcode/elements"
)

// Entry is one cached decode result.
type Entry struct {
	Path    string              `msgpack:"path"`
	ModTime time.Time           `msgpack:"mtime"`
	Info    *elements.ITypeInfo `msgpack:"info"`
}

// Cache is an in-memory index backed by a single msgpack file on disk.
// It is not safe for concurrent use; callers that decode a tree
// concurrently (see the batch package) should populate a Cache
// sequentially afterwards, or guard it with their own lock.
type Cache struct {
	path    string
	entries map[string]Entry
}

// Open loads path if it exists, or starts an empty cache if it does not.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]Entry)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	var list []Entry
	if err := msgpack.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	for _, e := range list {
		c.entries[e.Path] = e
	}
	return c, nil
}

// Lookup returns the cached type info for path if present and its
// recorded mtime matches modTime exactly; otherwise it reports a miss.
func (c *Cache) Lookup(path string, modTime time.Time) (*elements.ITypeInfo, bool) {
	e, ok := c.entries[path]
	if !ok || !e.ModTime.Equal(modTime) {
		return nil, false
	}
	return e.Info, true
}

// Put records (or replaces) the entry for path.
func (c *Cache) Put(path string, modTime time.Time, info *elements.ITypeInfo) {
	c.entries[path] = Entry{Path: path, ModTime: modTime, Info: info}
}

// Save serializes the cache to its backing file.
func (c *Cache) Save() error {
	list := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		list = append(list, e)
	}
	data, err := msgpack.Marshal(list)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}
