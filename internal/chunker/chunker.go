// Package chunker splits raw document text into overlapping fixed-size
// windows. Overlap carries local context across window boundaries so that a
// sentence cut in half by one chunk is whole in its neighbour.
package chunker

import (
	"fmt"
	"strings"
)

// Default chunking policy, matching the ingestion pipeline's embedding
// request sizing.
const (
	// DefaultSize is the maximum number of bytes per chunk.
	DefaultSize = 1000

	// DefaultOverlap is the number of bytes repeated from the end of one
	// chunk at the start of the next.
	DefaultOverlap = 100
)

// Split divides text into windows of at most size bytes, each starting
// size-overlap bytes after its predecessor. Any non-empty text yields at
// least one chunk; empty or whitespace-only text yields nil (callers treat
// that as an ingestion failure, not a chunking failure).
//
// size must be positive and overlap must satisfy 0 <= overlap < size:
// an overlap at or above the window size would never advance the cursor.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunker: size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunker: overlap must not be negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than size %d", overlap, size)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(text); start += step {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}

	return chunks, nil
}
