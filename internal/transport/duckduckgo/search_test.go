package duckduckgo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Logger: zap.NewNop()})
}

func TestSearch_FlattensAnswerAbstractAndTopics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "capital of france" {
			t.Errorf("unexpected query: %q", got)
		}
		w.Write([]byte(`{
			"Heading": "Paris",
			"Answer": "Paris",
			"AbstractText": "Paris is the capital of France.",
			"AbstractURL": "https://en.wikipedia.org/wiki/Paris",
			"RelatedTopics": [
				{"Text": "Paris - City in France", "FirstURL": "https://duckduckgo.com/Paris"},
				{"Text": ""}
			]
		}`))
	})

	results, err := c.Search(context.Background(), "capital of france", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %v", len(results), results)
	}
	if results[0].Snippet != "Paris" {
		t.Errorf("expected instant answer first, got %q", results[0].Snippet)
	}
	if results[1].URL != "https://en.wikipedia.org/wiki/Paris" {
		t.Errorf("unexpected abstract URL: %q", results[1].URL)
	}
}

func TestSearch_MaxResultsCap(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"RelatedTopics": [
				{"Text": "a", "FirstURL": "u1"},
				{"Text": "b", "FirstURL": "u2"},
				{"Text": "c", "FirstURL": "u3"}
			]
		}`))
	})

	results, err := c.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestSearch_NonOKStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Search(context.Background(), "q", 5)
	if !errors.Is(err, domain.ErrSearchProviderError) {
		t.Errorf("expected ErrSearchProviderError, got %v", err)
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := c.Search(context.Background(), "q", 5)
	if !errors.Is(err, domain.ErrSearchProviderError) {
		t.Errorf("expected ErrSearchProviderError, got %v", err)
	}
}

func TestSearch_EmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})

	results, err := c.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}
