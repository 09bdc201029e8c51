package chunker

import (
	"strings"

	"github.com/askdoc-io/askdoc/internal/domain"
)

// Chunker splits extracted text into fixed-size character chunks with overlap.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. Non-positive size falls back to 1000 characters,
// negative overlap to 200; overlap is clamped below size.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 200
	}
	if overlap >= size {
		overlap = size / 2
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split cuts text into chunks of up to size runes, each sharing overlap runes
// with its predecessor. Empty or whitespace-only text yields no chunks.
func (c *Chunker) Split(text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	step := c.size - c.overlap

	var chunks []domain.Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{Text: string(runes[start:end])})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
