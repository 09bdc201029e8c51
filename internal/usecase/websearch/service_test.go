package websearch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

type stubSearcher struct {
	results []domain.SearchResult
	err     error
	gotMax  int
}

func (s *stubSearcher) Search(_ context.Context, _ string, maxResults int) ([]domain.SearchResult, error) {
	s.gotMax = maxResults
	return s.results, s.err
}

type stubCompleter struct {
	reply     string
	err       error
	gotPrompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.reply, s.err
}

func TestAnswer_SearchErrorNeverPanics(t *testing.T) {
	search := &stubSearcher{err: errors.New("network unreachable")}
	s := NewService(search, &stubCompleter{}, 5, zap.NewNop())

	got := s.Answer(context.Background(), "anything")
	if !strings.HasPrefix(got, "Final Answer: (Web search error)") {
		t.Errorf("expected web search error answer, got %q", got)
	}
}

func TestAnswer_LLMErrorBecomesErrorAnswer(t *testing.T) {
	search := &stubSearcher{results: []domain.SearchResult{{Snippet: "gravity bends light"}}}
	llm := &stubCompleter{err: errors.New("provider down")}
	s := NewService(search, llm, 5, zap.NewNop())

	got := s.Answer(context.Background(), "does gravity bend light")
	if !strings.HasPrefix(got, "Final Answer: (Web search error)") {
		t.Errorf("expected web search error answer, got %q", got)
	}
}

func TestAnswer_PrefixNormalized(t *testing.T) {
	search := &stubSearcher{results: []domain.SearchResult{{Snippet: "paris is the capital"}}}

	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"no prefix", "Paris.", "Final Answer: Paris."},
		{"existing prefix kept", "Final Answer: Paris.", "Final Answer: Paris."},
		{"lowercase prefix kept", "final answer: Paris.", "final answer: Paris."},
		{"surrounding whitespace", "  Paris.  ", "Final Answer: Paris."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(search, &stubCompleter{reply: tt.reply}, 5, zap.NewNop())
			got := s.Answer(context.Background(), "capital of paris country")
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAnswer_KeywordFilter(t *testing.T) {
	search := &stubSearcher{results: []domain.SearchResult{
		{Snippet: "gravity is a force"},
		{Snippet: "a recipe for bread"},
	}}
	llm := &stubCompleter{reply: "It is a force."}
	s := NewService(search, llm, 5, zap.NewNop())

	s.Answer(context.Background(), "what is gravity")

	if !strings.Contains(llm.gotPrompt, "gravity is a force") {
		t.Error("expected matching snippet in prompt")
	}
	if strings.Contains(llm.gotPrompt, "recipe for bread") {
		t.Error("expected non-matching snippet to be filtered out")
	}
}

func TestAnswer_FilterNeverEmptiesResults(t *testing.T) {
	search := &stubSearcher{results: []domain.SearchResult{{Snippet: "completely unrelated text"}}}
	llm := &stubCompleter{reply: "answer"}
	s := NewService(search, llm, 5, zap.NewNop())

	s.Answer(context.Background(), "quantum chromodynamics")

	if !strings.Contains(llm.gotPrompt, "completely unrelated text") {
		t.Error("filter must keep original results when nothing matches")
	}
}

func TestAnswer_NoResults(t *testing.T) {
	search := &stubSearcher{}
	llm := &stubCompleter{}
	s := NewService(search, llm, 5, zap.NewNop())

	got := s.Answer(context.Background(), "q")
	if !strings.HasPrefix(got, "Final Answer: ") {
		t.Errorf("expected final answer prefix, got %q", got)
	}
	if llm.gotPrompt != "" {
		t.Error("expected no LLM call without results")
	}
}

func TestNewService_MaxResultsFallback(t *testing.T) {
	search := &stubSearcher{}
	s := NewService(search, &stubCompleter{}, 0, zap.NewNop())
	s.Answer(context.Background(), "q")
	if search.gotMax != 5 {
		t.Errorf("expected fallback max 5, got %d", search.gotMax)
	}
}
