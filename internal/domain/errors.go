package domain

import "errors"

var (
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrSearchProviderError signals a web search provider failure.
	ErrSearchProviderError = errors.New("search provider error")
	// ErrDocumentUnreadable signals a document whose text could not be extracted.
	ErrDocumentUnreadable = errors.New("document unreadable")
)
