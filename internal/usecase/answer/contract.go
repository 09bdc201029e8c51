package answer

import (
	"context"

	"github.com/askdoc-io/askdoc/internal/domain"
)

// Ingester deduplicates and indexes raw document bytes.
type Ingester interface {
	IngestIfNew(ctx context.Context, raw []byte) (domain.Outcome, error)
}

// Retriever returns concatenated chunk text relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (string, error)
}

// WebAnswerer produces a "Final Answer:"-prefixed reply and never fails.
type WebAnswerer interface {
	Answer(ctx context.Context, question string) string
}

// RelevanceChecker gates the document path when configured.
type RelevanceChecker interface {
	Relevant(ctx context.Context, question, docText string) bool
}
