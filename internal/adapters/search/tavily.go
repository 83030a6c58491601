package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/regenai/regen-agent/internal/domain"
)

const (
	defaultEndpoint = "https://api.tavily.com/search"

	// contentLimit bounds each result's content before it reaches prompt
	// assembly.
	contentLimit = 300
)

// TavilyClient implements domain.SearchClient against the Tavily REST API.
// With no API key the client reports itself disabled and the search gate
// degrades to an empty result list.
type TavilyClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

func NewTavilyClient(apiKey string, timeout time.Duration) *TavilyClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TavilyClient{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// NewTavilyClientWithEndpoint is used by tests to point at a local server.
func NewTavilyClientWithEndpoint(apiKey, endpoint string, timeout time.Duration) *TavilyClient {
	c := NewTavilyClient(apiKey, timeout)
	c.endpoint = endpoint
	return c
}

func (c *TavilyClient) Enabled() bool {
	return c.apiKey != ""
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("tavily: no api key configured")
	}
	if maxResults <= 0 {
		maxResults = 3
	}

	body, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("tavily: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return nil, fmt.Errorf("tavily: unexpected status %d: %s", res.StatusCode, snippet)
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}

	out := make([]domain.SearchResult, 0, maxResults)
	for _, r := range decoded.Results {
		if len(out) >= maxResults {
			break
		}
		out = append(out, domain.SearchResult{
			Title:   r.Title,
			Content: truncate(r.Content, contentLimit),
			URL:     r.URL,
		})
	}
	return out, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
