package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-assistant/zeroindex/internal/chunk"
	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

func newTestStore(t *testing.T, replace bool) *Store {
	t.Helper()
	chunker, err := chunk.New(1000, 200)
	require.NoError(t, err)
	return NewStore(filepath.Join(t.TempDir(), "user-1"), chunker, replace)
}

func TestValidateNamespace(t *testing.T) {
	assert.NoError(t, ValidateNamespace("user-1"))
	assert.NoError(t, ValidateNamespace("a_b_C_9"))

	for _, bad := range []string{"", "user/1", "user 1", strings.Repeat("x", 65), "../etc"} {
		err := ValidateNamespace(bad)
		require.Error(t, err, "namespace %q", bad)
		assert.Equal(t, zerrors.ErrCodeInvalidNamespace, zerrors.GetCode(err))
	}
}

func TestLoad_MissingFileIsEmptyIndex(t *testing.T) {
	s := newTestStore(t, false)

	ix, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())
	assert.Equal(t, 0, ix.NextChunkIndex)
}

func TestLoad_CorruptFileIsTypedError(t *testing.T) {
	s := newTestStore(t, false)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.IndexPath()), 0755))
	require.NoError(t, os.WriteFile(s.IndexPath(), []byte("{not json"), 0644))

	_, err := s.Load()
	require.Error(t, err)
	assert.Equal(t, zerrors.ErrCodeIndexCorrupt, zerrors.GetCode(err))
}

func TestAppendDocument_SingleFragment(t *testing.T) {
	s := newTestStore(t, false)

	ix, res, err := s.AppendDocument("a.txt", "alpha beta alpha gamma")
	require.NoError(t, err)

	assert.Equal(t, 1, res.FragmentsAdded)
	assert.Equal(t, 1, res.TotalFragments)
	require.Equal(t, 1, ix.Len())
	assert.Equal(t, "a.txt", ix.Fragments[0].SourceFilename)
	assert.Equal(t, 0, ix.Fragments[0].ChunkIndex)
	assert.Equal(t, []string{"alpha", "beta", "alpha", "gamma"}, ix.Tokens[0])
}

// Chunk indices are a namespace-wide counter, never reset per file.
func TestAppendDocument_GlobalChunkIndexAcrossDocuments(t *testing.T) {
	s := newTestStore(t, false)

	long := strings.Repeat("lorem ipsum dolor sit amet ", 60) // > 1000 chars

	_, res1, err := s.AppendDocument("a.txt", long)
	require.NoError(t, err)
	require.Greater(t, res1.FragmentsAdded, 1)

	ix, res2, err := s.AppendDocument("b.txt", long)
	require.NoError(t, err)
	require.Greater(t, res2.FragmentsAdded, 1)

	assert.Equal(t, res1.FragmentsAdded+res2.FragmentsAdded, ix.Len())
	for i, frag := range ix.Fragments {
		assert.Equal(t, i, frag.ChunkIndex, "chunk indices must be strictly increasing and unique")
	}
}

func TestAppendDocument_AppendModeDuplicates(t *testing.T) {
	s := newTestStore(t, false)

	_, _, err := s.AppendDocument("a.txt", "alpha beta")
	require.NoError(t, err)
	ix, res, err := s.AppendDocument("a.txt", "alpha beta")
	require.NoError(t, err)

	assert.Equal(t, 0, res.FragmentsDropped)
	assert.Equal(t, 2, ix.Len())
}

func TestAppendDocument_ReplaceModeDropsOldFragments(t *testing.T) {
	s := newTestStore(t, true)

	_, _, err := s.AppendDocument("a.txt", "old content here")
	require.NoError(t, err)
	_, _, err = s.AppendDocument("b.txt", "unrelated content")
	require.NoError(t, err)

	ix, res, err := s.AppendDocument("a.txt", "new content here")
	require.NoError(t, err)

	assert.Equal(t, 1, res.FragmentsDropped)
	assert.Equal(t, 2, ix.Len())

	// b.txt survives, a.txt is the new text only, and the new fragment's
	// index continues the counter instead of reusing the dropped one.
	byFile := map[string]Fragment{}
	for _, f := range ix.Fragments {
		byFile[f.SourceFilename] = f
	}
	assert.Equal(t, "new content here", byFile["a.txt"].Text)
	assert.Equal(t, 2, byFile["a.txt"].ChunkIndex)
	assert.Equal(t, 1, byFile["b.txt"].ChunkIndex)
}

// Load → Persist → Load must reproduce identical fragment content and order.
func TestIndex_RoundTrip(t *testing.T) {
	s := newTestStore(t, false)

	long := strings.Repeat("the quick brown fox jumps over the lazy dog ", 40)
	_, _, err := s.AppendDocument("a.txt", long)
	require.NoError(t, err)
	_, _, err = s.AppendDocument("b.md", "short document")
	require.NoError(t, err)

	first, err := s.Load()
	require.NoError(t, err)

	require.NoError(t, s.Persist(first))

	second, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, first.Fragments, second.Fragments)
	assert.Equal(t, first.Tokens, second.Tokens)
	assert.Equal(t, first.NextChunkIndex, second.NextChunkIndex)
}

// Token lists are derived data: an index persisted without them must be
// retokenized on load.
func TestLoad_RecomputesMissingTokens(t *testing.T) {
	s := newTestStore(t, false)

	_, _, err := s.AppendDocument("a.txt", "Alpha, beta!")
	require.NoError(t, err)

	raw := `{"fragments":[{"source_filename":"a.txt","chunk_index":0,"text":"Alpha, beta!"}],"next_chunk_index":1}`
	require.NoError(t, os.WriteFile(s.IndexPath(), []byte(raw), 0644))

	ix, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 1, ix.Len())
	assert.Equal(t, []string{"alpha", "beta"}, ix.Tokens[0])
}

func TestPersist_LeavesNoTempFile(t *testing.T) {
	s := newTestStore(t, false)

	_, _, err := s.AppendDocument("a.txt", "content")
	require.NoError(t, err)

	_, err = os.Stat(s.IndexPath() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
