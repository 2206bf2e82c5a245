package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/evalia/internal/cache"
	"github.com/ppiankov/evalia/internal/model"
)

func TestDetectProvider_PriorityOrder(t *testing.T) {
	tests := []struct {
		name  string
		creds model.SearchCredentials
		want  Provider
	}{
		{
			name: "tavily wins over everything",
			creds: model.SearchCredentials{
				TavilyAPIKey: "t", SerpAPIKey: "s", BingAPIKey: "b",
				GoogleAPIKey: "g", GoogleCSEID: "c",
			},
			want: ProviderTavily,
		},
		{
			name:  "serpapi before bing",
			creds: model.SearchCredentials{SerpAPIKey: "s", BingAPIKey: "b"},
			want:  ProviderSerpAPI,
		},
		{
			name:  "bing before google",
			creds: model.SearchCredentials{BingAPIKey: "b", GoogleAPIKey: "g", GoogleCSEID: "c"},
			want:  ProviderBing,
		},
		{
			name:  "google needs both key and cse id",
			creds: model.SearchCredentials{GoogleAPIKey: "g"},
			want:  ProviderMock,
		},
		{
			name:  "google with both",
			creds: model.SearchCredentials{GoogleAPIKey: "g", GoogleCSEID: "c"},
			want:  ProviderGoogle,
		},
		{
			name: "nothing configured",
			want: ProviderMock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectProvider(tt.creds); got != tt.want {
				t.Errorf("DetectProvider = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearch_MockProvider(t *testing.T) {
	c := NewClient(model.SearchConfig{}, nil)

	if c.Provider() != ProviderMock {
		t.Fatalf("Provider = %q, want mock", c.Provider())
	}

	results := c.Search(context.Background(), "quantum computing", 3)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 fixed mock results", len(results))
	}
	for _, r := range results {
		if !strings.Contains(r.Snippet, "quantum computing") {
			t.Errorf("snippet %q does not reference the query", r.Snippet)
		}
		if r.URL == "" || r.Title == "" {
			t.Errorf("result missing URL or title: %+v", r)
		}
	}
}

func TestSearch_Tavily(t *testing.T) {
	longContent := strings.Repeat("a", 300)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		var req tavilyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.APIKey != "tvly-test" {
			t.Errorf("api_key = %q", req.APIKey)
		}
		if req.Query != "rust memory safety" {
			t.Errorf("query = %q", req.Query)
		}
		if req.MaxResults != 3 {
			t.Errorf("max_results = %d", req.MaxResults)
		}

		fmt.Fprintf(w, `{"results": [
			{"title": "Rust Book", "url": "https://doc.rust-lang.org", "content": "Ownership guarantees memory safety"},
			{"title": "Long", "url": "https://example.com", "content": "%s"}
		]}`, longContent)
	}))
	defer server.Close()

	c := NewClient(model.SearchConfig{
		Credentials: model.SearchCredentials{TavilyAPIKey: "tvly-test"},
	}, nil)
	c.tavilyURL = server.URL

	results := c.Search(context.Background(), "rust memory safety", 3)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Title != "Rust Book" || results[0].Snippet != "Ownership guarantees memory safety" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if len(results[1].Snippet) != tavilySnippetLimit {
		t.Errorf("long snippet length = %d, want truncated to %d", len(results[1].Snippet), tavilySnippetLimit)
	}
}

func TestSearch_RequestErrorYieldsEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(model.SearchConfig{
		Credentials: model.SearchCredentials{TavilyAPIKey: "tvly-test"},
	}, nil)
	c.tavilyURL = server.URL

	results := c.Search(context.Background(), "anything", 3)

	if results == nil {
		t.Fatal("got nil, want empty slice")
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0 on request error", len(results))
	}
}

func TestSearch_CacheHitSkipsRequest(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"results": [{"title": "T", "url": "https://example.com", "content": "c"}]}`)
	}))
	defer server.Close()

	store := cache.NewMemoryCache(time.Minute, 0)
	c := NewClient(model.SearchConfig{
		Credentials: model.SearchCredentials{TavilyAPIKey: "tvly-test"},
	}, store)
	c.tavilyURL = server.URL

	first := c.Search(context.Background(), "cached query", 3)
	second := c.Search(context.Background(), "cached query", 3)

	if hits.Load() != 1 {
		t.Errorf("backend hit %d times, want 1 (second call should be served from cache)", hits.Load())
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("got %d then %d results, want 1 each", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Errorf("cached result %+v differs from original %+v", second[0], first[0])
	}
}

func TestSearch_DifferentQueriesGetDifferentCacheKeys(t *testing.T) {
	k1 := cache.SearchKey("tavily", "query one", 3)
	k2 := cache.SearchKey("tavily", "query two", 3)
	k3 := cache.SearchKey("tavily", "query one", 5)

	if k1 == k2 || k1 == k3 {
		t.Errorf("cache keys collide: %q %q %q", k1, k2, k3)
	}
	if !strings.HasPrefix(k1, "evalia:v1:") {
		t.Errorf("key %q missing namespace prefix", k1)
	}
}
