// Package relevance gates the document-grounded path: when a strategy is
// configured, a question must relate to the indexed document before
// retrieval is attempted.
package relevance

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

// Strategy decides whether a question is relevant to a document.
type Strategy interface {
	Relevant(ctx context.Context, question, docText string) bool
}

// Lexical is a cheap verbatim check: the document is relevant only when
// the whole question appears in it. Comparison is case-insensitive.
type Lexical struct{}

func (Lexical) Relevant(_ context.Context, question, docText string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return false
	}
	return strings.Contains(strings.ToLower(docText), q)
}

const semanticPrompt = `Decide whether the following question can plausibly be answered from the given document excerpt.

Respond with exactly one word: "relevant" or "irrelevant".

Question: %s

Document excerpt:
%s`

const previewLen = 1500

// Semantic asks the LLM whether the question relates to a document
// preview. Provider failures degrade to not-relevant.
type Semantic struct {
	llm    domain.Completer
	logger *zap.Logger
}

// NewSemantic creates an LLM-backed relevance strategy.
func NewSemantic(llm domain.Completer, logger *zap.Logger) *Semantic {
	return &Semantic{llm: llm, logger: logger}
}

func (s *Semantic) Relevant(ctx context.Context, question, docText string) bool {
	preview := docText
	if runes := []rune(preview); len(runes) > previewLen {
		preview = string(runes[:previewLen])
	}

	reply, err := s.llm.Complete(ctx, fmt.Sprintf(semanticPrompt, question, preview))
	if err != nil {
		s.logger.Warn("Relevance check failed, treating as not relevant", zap.Error(err))
		return false
	}

	lower := strings.ToLower(reply)
	// "irrelevant" contains "relevant", so check the negative first
	if strings.Contains(lower, "irrelevant") {
		return false
	}
	return strings.Contains(lower, "relevant")
}
