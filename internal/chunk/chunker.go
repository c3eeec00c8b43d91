// Package chunk splits extracted document text into overlapping
// fixed-size fragments for indexing.
package chunk

import (
	"fmt"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// Chunker produces overlapping windows over text. Windows are measured in
// Unicode code points, never split mid-rune, and consecutive windows share
// Overlap characters so no phrase is lost at a boundary.
type Chunker struct {
	maxChars int
	overlap  int
}

// New creates a Chunker. The overlap must be strictly smaller than
// maxChars; anything else would make the window start offset stall and is
// rejected here rather than looping forever during ingestion.
func New(maxChars, overlap int) (*Chunker, error) {
	if maxChars <= 0 {
		return nil, zerrors.ChunkParamsError(
			fmt.Sprintf("max chars must be positive, got %d", maxChars))
	}
	if overlap < 0 {
		return nil, zerrors.ChunkParamsError(
			fmt.Sprintf("overlap must not be negative, got %d", overlap))
	}
	if overlap >= maxChars {
		return nil, zerrors.ChunkParamsError(
			fmt.Sprintf("overlap (%d) must be smaller than max chars (%d)", overlap, maxChars))
	}
	return &Chunker{maxChars: maxChars, overlap: overlap}, nil
}

// MaxChars returns the window size in characters.
func (c *Chunker) MaxChars() int { return c.maxChars }

// Overlap returns the shared character count between windows.
func (c *Chunker) Overlap() int { return c.overlap }

// Split returns the ordered sequence of windows covering text. Every
// character of the input appears in at least one window; the final window
// may be shorter than the configured size. Empty input yields no windows.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.maxChars {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + c.maxChars
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end - c.overlap
	}
}
