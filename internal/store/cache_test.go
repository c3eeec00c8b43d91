package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCache_GetAddInvalidate(t *testing.T) {
	c, err := NewSnapshotCache(2)
	require.NoError(t, err)

	_, ok := c.Get("user-1")
	assert.False(t, ok)

	ix := &Index{Fragments: []Fragment{{SourceFilename: "a.txt", Text: "x"}}}
	c.Add("user-1", ix)

	got, ok := c.Get("user-1")
	require.True(t, ok)
	assert.Same(t, ix, got)

	c.Invalidate("user-1")
	_, ok = c.Get("user-1")
	assert.False(t, ok)
}

func TestSnapshotCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewSnapshotCache(2)
	require.NoError(t, err)

	c.Add("a", &Index{})
	c.Add("b", &Index{})
	c.Add("c", &Index{})

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest namespace should be evicted")
	_, ok = c.Get("c")
	assert.True(t, ok)
}
