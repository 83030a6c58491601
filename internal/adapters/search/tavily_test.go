package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTavilyDisabledWithoutKey(t *testing.T) {
	c := NewTavilyClient("", time.Second)
	if c.Enabled() {
		t.Fatal("client without key must report disabled")
	}
	if _, err := c.Search(context.Background(), "q", 3); err == nil {
		t.Fatal("searching while disabled must error")
	}
}

func TestTavilySearchTruncatesAndLimits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.APIKey != "key" || req.Query == "" {
			t.Errorf("unexpected request: %+v", req)
		}

		long := strings.Repeat("z", 500)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "one", "content": long, "url": "https://a"},
				{"title": "two", "content": "short", "url": "https://b"},
				{"title": "three", "content": "short", "url": "https://c"},
				{"title": "four", "content": "short", "url": "https://d"},
			},
		})
	}))
	defer srv.Close()

	c := NewTavilyClientWithEndpoint("key", srv.URL, time.Second)
	results, err := c.Search(context.Background(), "current wheat price", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if len(results[0].Content) != contentLimit {
		t.Fatalf("content not truncated: %d chars", len(results[0].Content))
	}
	if results[1].Title != "two" || results[1].URL != "https://b" {
		t.Fatalf("unexpected result mapping: %+v", results[1])
	}
}

func TestTavilySearchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewTavilyClientWithEndpoint("key", srv.URL, time.Second)
	if _, err := c.Search(context.Background(), "q", 3); err == nil {
		t.Fatal("expected an error on non-200 status")
	}
}
