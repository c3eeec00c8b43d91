package store

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// SnapshotCache keeps recently loaded namespace indexes in memory so the
// query path does not reread and retokenize the index file on every call.
// Entries are invalidated after each successful append; a stale read is
// therefore bounded to the pre-append snapshot, which matches the
// reader-during-write contract of the store.
type SnapshotCache struct {
	cache *lru.Cache[string, *Index]
}

// NewSnapshotCache creates a cache holding up to size namespace indexes.
func NewSnapshotCache(size int) (*SnapshotCache, error) {
	c, err := lru.New[string, *Index](size)
	if err != nil {
		return nil, err
	}
	return &SnapshotCache{cache: c}, nil
}

// Get returns the cached index for a namespace, if present.
func (c *SnapshotCache) Get(namespace string) (*Index, bool) {
	return c.cache.Get(namespace)
}

// Add stores a namespace's index snapshot.
func (c *SnapshotCache) Add(namespace string, ix *Index) {
	c.cache.Add(namespace, ix)
}

// Invalidate drops a namespace's cached snapshot, forcing the next read
// to load from disk.
func (c *SnapshotCache) Invalidate(namespace string) {
	c.cache.Remove(namespace)
}
