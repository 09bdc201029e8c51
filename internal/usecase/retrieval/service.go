// Package retrieval turns a question into a context string built from the
// most similar indexed chunks.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

const defaultTopK = 4

// Index is the consumer interface for similarity lookup.
type Index interface {
	Search(vector []float32, topK int) []domain.Chunk
	Len() int
}

// Service retrieves relevant chunk text for a question.
type Service struct {
	index    Index
	embedder domain.Embedder
	topK     int
	logger   *zap.Logger
}

// NewService creates a retrieval service. topK <= 0 falls back to 4.
func NewService(index Index, embedder domain.Embedder, topK int, logger *zap.Logger) *Service {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Service{index: index, embedder: embedder, topK: topK, logger: logger}
}

// Retrieve embeds the question and returns the concatenated text of the
// nearest chunks. An empty index yields an empty string without calling
// the embedding provider.
func (s *Service) Retrieve(ctx context.Context, question string) (string, error) {
	if s.index.Len() == 0 {
		return "", nil
	}

	result, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	chunks := s.index.Search(result.Embedding, s.topK)
	if len(chunks) == 0 {
		return "", nil
	}

	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = chunk.Text
	}
	return strings.Join(parts, "\n"), nil
}
