// Package textsplit chunks bill full text for embedding. Chunk order is
// significant: document reconstruction concatenates chunks back in the
// order produced here.
package textsplit

import "strings"

const (
	DefaultChunkSize = 2000
	DefaultOverlap   = 200
)

// Split cuts text into overlapping character chunks. When a chunk
// boundary falls mid-paragraph, the cut is pulled back to the nearest
// newline or space within the last tenth of the chunk so words survive
// intact.
func Split(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
		if overlap >= chunkSize {
			overlap = 0
		}
	}

	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap

	var chunks []string
	for i := 0; i < totalLen; {
		end := i + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[i:totalLen]))
			break
		}

		cut := breakPoint(runes, i, end)
		chunks = append(chunks, string(runes[i:cut]))

		next := cut - overlap
		if next <= i {
			next = i + step
		}
		i = next
	}

	return chunks
}

// breakPoint searches backwards from end for a newline, then a space,
// within the last tenth of the chunk. Falls back to the hard boundary.
func breakPoint(runes []rune, start, end int) int {
	window := (end - start) / 10
	if window == 0 {
		return end
	}
	limit := end - window

	for i := end - 1; i >= limit; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i >= limit; i-- {
		if runes[i] == ' ' {
			return i + 1
		}
	}
	return end
}

// Normalize collapses Windows line endings and trims outer whitespace
// before splitting.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}
