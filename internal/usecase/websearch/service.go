// Package websearch answers questions from web search results. It is the
// fallback path and never returns an error: failures become an apologetic
// final answer instead.
package websearch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

const finalAnswerPrefix = "Final Answer: "

const synthesisPrompt = `Answer the question using the web search results below. Be concise and factual. If the results do not contain the answer, say so.

Question: %s

Search results:
%s

Answer:`

// Searcher is the consumer interface for the web search provider.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error)
}

// Service synthesizes an answer from search results.
type Service struct {
	search     Searcher
	llm        domain.Completer
	maxResults int
	logger     *zap.Logger
}

// NewService creates a web-answer service. maxResults <= 0 falls back to 5.
func NewService(search Searcher, llm domain.Completer, maxResults int, logger *zap.Logger) *Service {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Service{search: search, llm: llm, maxResults: maxResults, logger: logger}
}

// Answer searches the web and asks the LLM to synthesize a reply. The
// returned string always starts with "Final Answer: ".
func (s *Service) Answer(ctx context.Context, question string) string {
	results, err := s.search.Search(ctx, question, s.maxResults)
	if err != nil {
		s.logger.Warn("Web search failed", zap.Error(err))
		return finalAnswerPrefix + "(Web search error) " + err.Error()
	}

	results = filterByKeywords(question, results)
	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}

	if len(results) == 0 {
		return finalAnswerPrefix + "I could not find anything on the web about that."
	}

	reply, err := s.llm.Complete(ctx, fmt.Sprintf(synthesisPrompt, question, formatResults(results)))
	if err != nil {
		s.logger.Warn("Web answer synthesis failed", zap.Error(err))
		return finalAnswerPrefix + "(Web search error) " + err.Error()
	}

	return normalize(reply)
}

// filterByKeywords drops results whose snippets share no keyword with the
// question. When nothing survives, the originals are kept; a weak filter
// must not erase a usable result set.
func filterByKeywords(question string, results []domain.SearchResult) []domain.SearchResult {
	keywords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, ".,!?;:\"'")
		if len(w) >= 3 {
			keywords[w] = struct{}{}
		}
	}
	if len(keywords) == 0 {
		return results
	}

	var kept []domain.SearchResult
	for _, r := range results {
		snippet := strings.ToLower(r.Snippet + " " + r.Title)
		for kw := range keywords {
			if strings.Contains(snippet, kw) {
				kept = append(kept, r)
				break
			}
		}
	}
	if len(kept) == 0 {
		return results
	}
	return kept
}

func formatResults(results []domain.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s", i+1, r.Snippet)
		if r.URL != "" {
			fmt.Fprintf(&b, " (%s)", r.URL)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// normalize guarantees the "Final Answer:" prefix. A reply that already
// carries one, in any casing, is passed through unchanged.
func normalize(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(strings.ToLower(reply), "final answer:") {
		return reply
	}
	return finalAnswerPrefix + reply
}
