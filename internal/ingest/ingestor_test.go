package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-assistant/zeroindex/internal/chunk"
	"github.com/zero-assistant/zeroindex/internal/config"
	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
	"github.com/zero-assistant/zeroindex/internal/extract"
	"github.com/zero-assistant/zeroindex/internal/store"
)

func testIngestor(t *testing.T) (*Ingestor, *config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()

	chunker, err := chunk.New(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	require.NoError(t, err)

	return New(cfg, extract.New(nil), chunker, nil, nil, nil), cfg
}

func TestIngest_SingleTextDocument(t *testing.T) {
	in, cfg := testIngestor(t)

	res, err := in.Ingest(context.Background(), "notes", "hello.txt",
		[]byte("alpha beta gamma"))
	require.NoError(t, err)

	assert.Equal(t, "hello.txt", res.Filename)
	assert.Equal(t, 1, res.FragmentsAdded)
	assert.Equal(t, 1, res.TotalFragments)

	st := store.NewStore(cfg.NamespaceDir("notes"), mustChunker(t, cfg), false)
	ix, err := st.Load()
	require.NoError(t, err)
	require.Len(t, ix.Fragments, 1)
	assert.Equal(t, "alpha beta gamma", ix.Fragments[0].Text)
}

func TestIngest_InvalidNamespace(t *testing.T) {
	in, _ := testIngestor(t)

	_, err := in.Ingest(context.Background(), "bad/namespace", "a.txt", []byte("text"))
	require.Error(t, err)
	assert.Equal(t, zerrors.ErrCodeInvalidNamespace, zerrors.GetCode(err))
}

func TestIngest_EmptyDocumentNeverTouchesIndex(t *testing.T) {
	in, cfg := testIngestor(t)

	_, err := in.Ingest(context.Background(), "notes", "blank.txt", []byte("   "))
	require.Error(t, err)
	assert.True(t, zerrors.IsExtractEmpty(err))

	st := store.NewStore(cfg.NamespaceDir("notes"), mustChunker(t, cfg), false)
	ix, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())
}

func TestIngest_UnsupportedFormat(t *testing.T) {
	in, _ := testIngestor(t)

	_, err := in.Ingest(context.Background(), "notes", "tool.exe", []byte("MZ"))
	require.Error(t, err)
	assert.Equal(t, zerrors.ErrCodeUnsupportedFormat, zerrors.GetCode(err))
}

func TestIngestAll_BatchWithFailuresContinues(t *testing.T) {
	in, _ := testIngestor(t)

	files := []File{
		{Name: "one.txt", Data: []byte("first document")},
		{Name: "blank.txt", Data: []byte("  ")},
		{Name: "two.txt", Data: []byte("second document")},
		{Name: "bad.exe", Data: []byte("MZ")},
	}

	results, err := in.IngestAll(context.Background(), "batch", files)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].FragmentsAdded)

	assert.True(t, zerrors.IsExtractEmpty(results[1].Err))

	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, results[2].FragmentsAdded)

	assert.Equal(t, zerrors.ErrCodeUnsupportedFormat, zerrors.GetCode(results[3].Err))
}

func TestIngestAll_ChunkIndicesAreContiguous(t *testing.T) {
	in, cfg := testIngestor(t)

	long := strings.Repeat("word ", 500) // several chunks per document
	files := []File{
		{Name: "a.txt", Data: []byte(long)},
		{Name: "b.txt", Data: []byte(long)},
		{Name: "c.txt", Data: []byte(long)},
	}

	_, err := in.IngestAll(context.Background(), "batch", files)
	require.NoError(t, err)

	st := store.NewStore(cfg.NamespaceDir("batch"), mustChunker(t, cfg), false)
	ix, err := st.Load()
	require.NoError(t, err)

	for i, frag := range ix.Fragments {
		assert.Equal(t, i, frag.ChunkIndex)
	}
}

func TestIngestAll_EmptyBatch(t *testing.T) {
	in, _ := testIngestor(t)

	results, err := in.IngestAll(context.Background(), "batch", nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestIngest_ReplaceModeDropsOldFragments(t *testing.T) {
	in, cfg := testIngestor(t)
	cfg.Index.Reingest = config.ReingestReplace

	_, err := in.Ingest(context.Background(), "notes", "doc.txt", []byte("version one"))
	require.NoError(t, err)

	res, err := in.Ingest(context.Background(), "notes", "doc.txt", []byte("version two"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.FragmentsDropped)
	assert.Equal(t, 1, res.TotalFragments)
}

func TestIngest_RecordsInRegistry(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()

	reg, err := store.OpenRegistry(filepath.Join(cfg.Paths.DataDir, "registry.db"))
	require.NoError(t, err)
	defer reg.Close()

	in := New(cfg, extract.New(nil), mustChunker(t, cfg), reg, nil, nil)

	_, err = in.Ingest(context.Background(), "notes", "doc.txt", []byte("some content"))
	require.NoError(t, err)

	records, err := reg.List(context.Background(), "notes")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "doc.txt", records[0].Filename)
	assert.Equal(t, 1, records[0].FragmentsAdded)
}

func TestIngest_InvalidatesCache(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()

	cache, err := store.NewSnapshotCache(4)
	require.NoError(t, err)
	cache.Add("notes", &store.Index{})

	in := New(cfg, extract.New(nil), mustChunker(t, cfg), nil, cache, nil)

	_, err = in.Ingest(context.Background(), "notes", "doc.txt", []byte("content"))
	require.NoError(t, err)

	_, ok := cache.Get("notes")
	assert.False(t, ok)
}

func TestNamespaceLock_TryLockConflict(t *testing.T) {
	dir := t.TempDir()

	first := NewNamespaceLock(dir)
	require.NoError(t, first.Lock())
	defer first.Unlock()

	// flock is per-process on some platforms, so verify re-entrancy of
	// the same handle rather than a second handle's failure.
	assert.Equal(t, filepath.Join(dir, ".ingest.lock"), first.Path())
	require.NoError(t, first.Unlock())
	require.NoError(t, first.Unlock()) // idempotent
}

func mustChunker(t *testing.T, cfg *config.Config) *chunk.Chunker {
	t.Helper()
	c, err := chunk.New(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	require.NoError(t, err)
	return c
}
