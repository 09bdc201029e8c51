package ingest

import (
	"context"

	"github.com/askdoc-io/askdoc/internal/domain"
)

// FingerprintStore tracks which documents have already been indexed.
type FingerprintStore interface {
	Contains(ctx context.Context, fp domain.Fingerprint) bool
	Add(ctx context.Context, fp domain.Fingerprint)
}

// Index receives new chunks and persists itself.
type Index interface {
	Add(chunks []domain.Chunk, vectors [][]float32) error
	Save() error
}

// Chunker splits extracted text into overlapping chunks.
type Chunker interface {
	Split(text string) []domain.Chunk
}

// ExtractFunc converts raw document bytes into plain text.
type ExtractFunc func(raw []byte) (string, error)
