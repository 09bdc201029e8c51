package retrieval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

type mockIndex struct {
	chunks []domain.Chunk
	gotK   int
}

func (m *mockIndex) Len() int { return len(m.chunks) }

func (m *mockIndex) Search(_ []float32, topK int) []domain.Chunk {
	m.gotK = topK
	if topK > len(m.chunks) {
		topK = len(m.chunks)
	}
	return m.chunks[:topK]
}

type mockEmbedder struct {
	calls int
	err   error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{1}}, nil
}

func TestRetrieve_EmptyIndexSkipsEmbedding(t *testing.T) {
	emb := &mockEmbedder{}
	s := NewService(&mockIndex{}, emb, 4, zap.NewNop())

	got, err := s.Retrieve(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
	if emb.calls != 0 {
		t.Errorf("empty index must not embed, got %d calls", emb.calls)
	}
}

func TestRetrieve_JoinsChunks(t *testing.T) {
	idx := &mockIndex{chunks: []domain.Chunk{{Text: "first"}, {Text: "second"}}}
	s := NewService(idx, &mockEmbedder{}, 4, zap.NewNop())

	got, err := s.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "first\nsecond" {
		t.Errorf("unexpected context: %q", got)
	}
	if idx.gotK != 4 {
		t.Errorf("expected topK 4, got %d", idx.gotK)
	}
}

func TestRetrieve_EmbedError(t *testing.T) {
	idx := &mockIndex{chunks: []domain.Chunk{{Text: "x"}}}
	s := NewService(idx, &mockEmbedder{err: errors.New("down")}, 4, zap.NewNop())

	got, err := s.Retrieve(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error")
	}
	if got != "" {
		t.Errorf("expected empty context on error, got %q", got)
	}
}

func TestNewService_TopKFallback(t *testing.T) {
	idx := &mockIndex{chunks: []domain.Chunk{{Text: "x"}}}
	s := NewService(idx, &mockEmbedder{}, 0, zap.NewNop())

	if _, err := s.Retrieve(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.gotK != 4 {
		t.Errorf("expected fallback topK 4, got %d", idx.gotK)
	}
}
