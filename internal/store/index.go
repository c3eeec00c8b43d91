package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/zero-assistant/zeroindex/internal/chunk"
	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

const (
	// indexFileName is the persisted index file within each namespace
	// directory.
	indexFileName = "index.json"

	// maxNamespaceLength is the maximum allowed namespace length.
	maxNamespaceLength = 64
)

// validNamespacePattern matches alphanumeric, hyphen, and underscore.
var validNamespacePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateNamespace validates a namespace identifier. Namespaces become
// directory names, so only letters, numbers, hyphens, and underscores
// are allowed.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return zerrors.ValidationError(zerrors.ErrCodeInvalidNamespace,
			"namespace cannot be empty")
	}
	if len(namespace) > maxNamespaceLength {
		return zerrors.ValidationError(zerrors.ErrCodeInvalidNamespace,
			fmt.Sprintf("namespace too long (max %d chars)", maxNamespaceLength))
	}
	if !validNamespacePattern.MatchString(namespace) {
		return zerrors.ValidationError(zerrors.ErrCodeInvalidNamespace,
			"namespace can only contain letters, numbers, hyphens, and underscores")
	}
	return nil
}

// Store reads and writes one namespace's persisted index. The caller is
// responsible for serializing writers (see ingest.Lock); concurrent
// readers are safe because Persist replaces the file atomically.
type Store struct {
	dir     string
	chunker *chunk.Chunker
	replace bool
}

// NewStore creates a Store rooted at the namespace directory. When
// replace is true, re-ingesting a filename drops its old fragments
// instead of appending duplicates.
func NewStore(dir string, chunker *chunk.Chunker, replace bool) *Store {
	return &Store{dir: dir, chunker: chunker, replace: replace}
}

// IndexPath returns the path of the persisted index file.
func (s *Store) IndexPath() string {
	return filepath.Join(s.dir, indexFileName)
}

// Load deserializes the namespace's persisted index. A missing file is
// not an error: it loads as an empty index, ready for first ingestion.
func (s *Store) Load() (*Index, error) {
	data, err := os.ReadFile(s.IndexPath())
	if os.IsNotExist(err) {
		return &Index{}, nil
	}
	if err != nil {
		return nil, zerrors.IndexIOError(zerrors.ErrCodeIndexRead,
			fmt.Sprintf("cannot read index file %s", s.IndexPath()), err)
	}

	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, zerrors.IndexIOError(zerrors.ErrCodeIndexCorrupt,
			fmt.Sprintf("cannot parse index file %s", s.IndexPath()), err)
	}

	// Token lists are derived data. If the file predates the current
	// tokenizer or the parallel-array invariant is broken, recompute
	// them from fragment text.
	if len(ix.Tokens) != len(ix.Fragments) {
		ix.Tokens = make([][]string, len(ix.Fragments))
		for i, frag := range ix.Fragments {
			ix.Tokens[i] = Tokenize(frag.Text)
		}
	}
	if ix.NextChunkIndex < maxChunkIndex(ix.Fragments)+1 {
		ix.NextChunkIndex = maxChunkIndex(ix.Fragments) + 1
	}

	return &ix, nil
}

// Persist atomically overwrites the namespace's on-disk index with the
// full current state: write to a temporary file, then rename into place.
// A reader observes either the previous or the new index, never a torn
// one.
func (s *Store) Persist(ix *Index) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return zerrors.IndexIOError(zerrors.ErrCodeIndexWrite,
			fmt.Sprintf("cannot create namespace directory %s", s.dir), err)
	}

	data, err := json.Marshal(ix)
	if err != nil {
		return zerrors.IndexIOError(zerrors.ErrCodeIndexWrite,
			"cannot marshal index", err)
	}

	path := s.IndexPath()
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return zerrors.IndexIOError(zerrors.ErrCodeIndexWrite,
			fmt.Sprintf("cannot write index file %s", tmpPath), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return zerrors.IndexIOError(zerrors.ErrCodeIndexWrite,
			fmt.Sprintf("cannot replace index file %s", path), err)
	}

	return nil
}

// AppendDocument chunks and tokenizes text, appends the resulting
// fragments to the namespace index, and persists the updated index.
// Chunk indices continue the namespace-wide counter regardless of
// filename. On any error the on-disk index is left untouched.
func (s *Store) AppendDocument(filename, text string) (*Index, AppendResult, error) {
	ix, err := s.Load()
	if err != nil {
		return nil, AppendResult{}, err
	}

	var dropped int
	if s.replace {
		dropped = dropFilename(ix, filename)
	}

	chunks := s.chunker.Split(text)
	for _, c := range chunks {
		ix.Fragments = append(ix.Fragments, Fragment{
			SourceFilename: filename,
			ChunkIndex:     ix.NextChunkIndex,
			Text:           c,
		})
		ix.Tokens = append(ix.Tokens, Tokenize(c))
		ix.NextChunkIndex++
	}

	if err := s.Persist(ix); err != nil {
		return nil, AppendResult{}, err
	}

	return ix, AppendResult{
		FragmentsAdded:   len(chunks),
		FragmentsDropped: dropped,
		TotalFragments:   ix.Len(),
	}, nil
}

// dropFilename removes all fragments sourced from filename, keeping the
// fragment/token arrays parallel. Returns the number removed.
func dropFilename(ix *Index, filename string) int {
	kept := ix.Fragments[:0]
	keptTokens := ix.Tokens[:0]
	dropped := 0
	for i, frag := range ix.Fragments {
		if frag.SourceFilename == filename {
			dropped++
			continue
		}
		kept = append(kept, frag)
		keptTokens = append(keptTokens, ix.Tokens[i])
	}
	ix.Fragments = kept
	ix.Tokens = keptTokens
	return dropped
}

func maxChunkIndex(fragments []Fragment) int {
	max := -1
	for _, f := range fragments {
		if f.ChunkIndex > max {
			max = f.ChunkIndex
		}
	}
	return max
}
