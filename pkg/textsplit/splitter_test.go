package textsplit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	chunks := Split("short text", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplitProducesOverlappingChunks(t *testing.T) {
	text := strings.Repeat("abcdefghij", 100) // 1000 chars, no break points
	chunks := Split(text, 300, 50)

	require.Greater(t, len(chunks), 1)
	// Consecutive chunks share the overlap region.
	for i := 1; i < len(chunks); i++ {
		assert.True(t, strings.HasSuffix(chunks[i-1], chunks[i][:50]) ||
			len(chunks[i]) < 50, "chunk %d should overlap its predecessor", i)
	}
}

func TestSplitPrefersNewlineBoundary(t *testing.T) {
	line := strings.Repeat("a", 95) + "\n"
	text := strings.Repeat(line, 20)
	chunks := Split(text, 100, 0)

	for i, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(chunk, "\n"), "chunk %d should end at a newline", i)
	}
}

func TestSplitCoversWholeText(t *testing.T) {
	text := strings.Repeat("Section 1. The legislature finds.\n", 200)
	chunks := Split(text, 500, 100)

	require.NotEmpty(t, chunks)
	// Every part of the input appears in the output; with overlap there
	// may be duplicated regions, but the tail must be intact.
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb", Normalize("  a\r\nb \n"))
}
