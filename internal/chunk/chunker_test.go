package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

func TestNew_RejectsPathologicalParams(t *testing.T) {
	tests := []struct {
		name     string
		maxChars int
		overlap  int
	}{
		{"overlap equals max", 100, 100},
		{"overlap exceeds max", 100, 150},
		{"zero max", 0, 0},
		{"negative overlap", 100, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.maxChars, tt.overlap)
			require.Error(t, err)
			assert.Equal(t, zerrors.ErrCodeChunkParams, zerrors.GetCode(err))
		})
	}
}

func TestSplit_ShortTextIsSingleChunk(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	chunks := c.Split("alpha beta alpha gamma")

	require.Len(t, chunks, 1)
	assert.Equal(t, "alpha beta alpha gamma", chunks[0])
}

func TestSplit_EmptyTextYieldsNoChunks(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
}

func TestSplit_WindowsOverlap(t *testing.T) {
	c, err := New(10, 4)
	require.NoError(t, err)

	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := c.Split(text)

	require.Greater(t, len(chunks), 1)
	assert.Equal(t, "abcdefghij", chunks[0])
	// Next window starts at previous end minus overlap.
	assert.Equal(t, "ghijklmnop", chunks[1])
	// Consecutive chunks share the overlap suffix/prefix.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		suffix := string(prev[len(prev)-4:])
		assert.True(t, strings.HasPrefix(chunks[i], suffix),
			"chunk %d does not continue the previous window", i)
	}
}

// Every character of the source must be covered by at least one window.
func TestSplit_FullCoverage(t *testing.T) {
	tests := []struct {
		name     string
		maxChars int
		overlap  int
		length   int
	}{
		{"exact multiple", 10, 2, 80},
		{"short tail", 10, 3, 47},
		{"no overlap", 7, 0, 50},
		{"single char", 5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.maxChars, tt.overlap)
			require.NoError(t, err)

			text := strings.Repeat("abcdefghij", (tt.length+9)/10)[:tt.length]
			chunks := c.Split(text)

			covered := make([]bool, tt.length)
			pos := 0
			for i, ch := range chunks {
				assert.LessOrEqual(t, len([]rune(ch)), tt.maxChars)
				if i > 0 {
					pos += tt.maxChars - tt.overlap
				}
				for j := range []rune(ch) {
					covered[pos+j] = true
				}
			}
			for i, ok := range covered {
				require.True(t, ok, "character %d not covered", i)
			}
		})
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c, err := New(12, 5)
	require.NoError(t, err)

	text := strings.Repeat("the quick brown fox ", 20)
	first := c.Split(text)
	second := c.Split(text)

	assert.Equal(t, first, second)
}

func TestSplit_RespectsRuneBoundaries(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)

	text := "日本語のテキストです"
	chunks := c.Split(text)

	var total string
	for i, ch := range chunks {
		// Every chunk must be valid UTF-8 of whole runes.
		assert.LessOrEqual(t, len([]rune(ch)), 4)
		if i == 0 {
			total = ch
		} else {
			total += string([]rune(ch)[1:])
		}
	}
	assert.Equal(t, text, total)
}
