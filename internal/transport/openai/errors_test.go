package openai

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/askdoc-io/askdoc/internal/domain"
)

func TestParseAPIError_RequestErrorWithDetail(t *testing.T) {
	src := &openai.RequestError{
		HTTPStatusCode: http.StatusUnauthorized,
		Body:           []byte(`{"detail":"invalid api key"}`),
	}
	err := parseAPIError(src, domain.ErrEmbeddingProviderError)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("expected detail in message, got %q", err.Error())
	}
}

func TestParseAPIError_APIError(t *testing.T) {
	src := &openai.APIError{
		HTTPStatusCode: http.StatusBadGateway,
		Message:        "upstream exploded",
	}
	err := parseAPIError(src, domain.ErrCompletionProviderError)
	if !errors.Is(err, domain.ErrCompletionProviderError) {
		t.Errorf("expected ErrCompletionProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("expected message preserved, got %q", err.Error())
	}
}

func TestParseAPIError_PlainError(t *testing.T) {
	err := parseAPIError(errors.New("dial tcp: timeout"), domain.ErrEmbeddingProviderError)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected sentinel wrap, got %v", err)
	}
}
