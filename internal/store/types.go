// Package store persists per-namespace fragment indexes and the SQLite
// document registry. A namespace is one user's isolation boundary; no
// fragment is ever visible across namespaces.
package store

// Fragment is the atomic unit of indexing and retrieval: a bounded slice
// of extracted document text. Fragments are immutable once created.
type Fragment struct {
	// SourceFilename is the name of the document the fragment came from.
	SourceFilename string `json:"source_filename"`
	// ChunkIndex is the fragment's position counter. It is global and
	// monotonically increasing across the whole namespace, not per file.
	ChunkIndex int `json:"chunk_index"`
	// Text is the fragment content, at most the configured chunk size.
	Text string `json:"text"`
}

// Index is a namespace's full fragment sequence plus parallel token
// lists. len(Fragments) == len(Tokens) always holds after Load.
type Index struct {
	// Fragments in append order.
	Fragments []Fragment `json:"fragments"`
	// Tokens[i] is the token list derived from Fragments[i].Text.
	Tokens [][]string `json:"tokens"`
	// NextChunkIndex is the next chunk index to assign. Persisted so
	// replace-mode re-ingestion keeps indices unique and increasing.
	NextChunkIndex int `json:"next_chunk_index"`
}

// Len returns the number of fragments.
func (ix *Index) Len() int { return len(ix.Fragments) }

// AppendResult reports what an append changed.
type AppendResult struct {
	// FragmentsAdded is the number of fragments created from the document.
	FragmentsAdded int
	// FragmentsDropped is the number of same-filename fragments removed
	// (replace mode only).
	FragmentsDropped int
	// TotalFragments is the namespace fragment count after the append.
	TotalFragments int
}
