// Package duckduckgo implements web search over the DuckDuckGo Instant
// Answer API. No API key required.
package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
	"github.com/askdoc-io/askdoc/internal/metrics"
)

const defaultBaseURL = "https://api.duckduckgo.com/"

// Client queries the DuckDuckGo Instant Answer API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// Config holds the search client settings.
type Config struct {
	BaseURL string // empty = api.duckduckgo.com
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a search client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		logger:     cfg.Logger,
	}
}

type ddgResponse struct {
	Abstract      string `json:"Abstract"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search returns up to maxResults results for the query. The instant
// answer, abstract and related topics are flattened into a single list.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", domain.ErrSearchProviderError)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.WebSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search request: %v: %w", err, domain.ErrSearchProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.WebSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("search returned status %d: %w", resp.StatusCode, domain.ErrSearchProviderError)
	}

	var parsed ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.WebSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode search response: %v: %w", err, domain.ErrSearchProviderError)
	}

	metrics.WebSearchRequestsTotal.WithLabelValues("success").Inc()

	results := flatten(&parsed)
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

func flatten(r *ddgResponse) []domain.SearchResult {
	var out []domain.SearchResult

	if r.Answer != "" {
		out = append(out, domain.SearchResult{Title: r.Heading, Snippet: r.Answer})
	}
	abstract := r.AbstractText
	if abstract == "" {
		abstract = r.Abstract
	}
	if abstract != "" {
		out = append(out, domain.SearchResult{Title: r.Heading, URL: r.AbstractURL, Snippet: abstract})
	}
	for _, topic := range r.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		out = append(out, domain.SearchResult{URL: topic.FirstURL, Snippet: topic.Text})
	}
	return out
}
