package domain

import "context"

// EmbeddingResult holds an embedding vector and the provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Completer produces a text completion for a prompt. Implementations run in
// deterministic mode (temperature pinned to zero) so classifier outputs are
// stable under identical prompts.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HealthChecker is implemented by providers that can verify availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
