package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/ppiankov/evalia/internal/cache"
	"github.com/ppiankov/evalia/internal/model"
	"github.com/ppiankov/evalia/internal/util"
	"github.com/ppiankov/evalia/internal/worker"
)

// Provider identifies a web-search backend
type Provider string

const (
	ProviderTavily  Provider = "tavily"
	ProviderSerpAPI Provider = "serpapi"
	ProviderBing    Provider = "bing"
	ProviderGoogle  Provider = "google"
	ProviderMock    Provider = "mock" // No credentials configured
)

// DetectProvider picks the search backend from whichever credential is
// present, in fixed priority order. The choice is made once per process;
// there is no per-call failover between providers.
func DetectProvider(creds model.SearchCredentials) Provider {
	switch {
	case creds.TavilyAPIKey != "":
		return ProviderTavily
	case creds.SerpAPIKey != "":
		return ProviderSerpAPI
	case creds.BingAPIKey != "":
		return ProviderBing
	case creds.GoogleAPIKey != "" && creds.GoogleCSEID != "":
		return ProviderGoogle
	default:
		return ProviderMock
	}
}

// Client queries one web-search backend and returns normalized results.
// Request errors yield an empty result set for that call, never an error:
// missing evidence degrades the fact-check, it does not abort the pipeline.
type Client struct {
	provider   Provider
	creds      model.SearchCredentials
	httpClient *http.Client
	limiter    *worker.Limiter
	store      cache.Cache // nil when caching is disabled
	timeout    time.Duration

	// Endpoint URLs, overridable in tests
	tavilyURL  string
	serpAPIURL string
	bingURL    string
	googleURL  string
}

// NewClient creates a search client. Provider selection happens here, once.
func NewClient(cfg model.SearchConfig, store cache.Cache) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	ratePerSec := cfg.RatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 2
	}

	return &Client{
		provider: DetectProvider(cfg.Credentials),
		creds:    cfg.Credentials,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		limiter:    worker.NewLimiter(ratePerSec, cfg.Burst),
		store:      store,
		timeout:    timeout,
		tavilyURL:  "https://api.tavily.com/search",
		serpAPIURL: "https://serpapi.com/search",
		bingURL:    "https://api.bing.microsoft.com/v7.0/search",
		googleURL:  "https://www.googleapis.com/customsearch/v1",
	}
}

// Provider returns the selected backend
func (c *Client) Provider() Provider {
	return c.provider
}

// Search queries the selected backend and returns up to numResults
// normalized results. With no provider configured it returns two fixed
// mock results referencing the query, so the pipeline never receives zero
// evidence purely due to missing configuration.
func (c *Client) Search(ctx context.Context, query string, numResults int) []model.SearchResult {
	if c.provider == ProviderMock {
		return mockResults(query)
	}

	key := cache.SearchKey(string(c.provider), query, numResults)
	if c.store != nil {
		if data, found := c.store.Get(key); found {
			var cached []model.SearchResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached
			}
		}
	}

	if err := c.limiter.Wait(ctx, c.endpointHost()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: search rate limit wait: %v\n", err)
		return []model.SearchResult{}
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var results []model.SearchResult
	var err error

	switch c.provider {
	case ProviderTavily:
		results, err = c.searchTavily(ctxWithTimeout, query, numResults)
	case ProviderSerpAPI:
		results, err = c.searchSerpAPI(ctxWithTimeout, query, numResults)
	case ProviderBing:
		results, err = c.searchBing(ctxWithTimeout, query, numResults)
	case ProviderGoogle:
		results, err = c.searchGoogle(ctxWithTimeout, query, numResults)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s search error: %v\n", c.provider, err)
		return []model.SearchResult{}
	}

	if c.store != nil {
		if data, err := json.Marshal(results); err == nil {
			_ = c.store.Set(key, data, 0)
		}
	}

	return results
}

// endpointHost returns the rate-limiting key for the selected backend
func (c *Client) endpointHost() string {
	var raw string
	switch c.provider {
	case ProviderTavily:
		raw = c.tavilyURL
	case ProviderSerpAPI:
		raw = c.serpAPIURL
	case ProviderBing:
		raw = c.bingURL
	case ProviderGoogle:
		raw = c.googleURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return string(c.provider)
	}
	return parsed.Host
}

// mockResults returns fixed placeholder evidence for unconfigured setups
func mockResults(query string) []model.SearchResult {
	return []model.SearchResult{
		{
			Title:   "Example Result 1",
			URL:     "https://example.com/1",
			Snippet: fmt.Sprintf("This is a relevant result about %s", query),
		},
		{
			Title:   "Example Result 2",
			URL:     "https://example.com/2",
			Snippet: fmt.Sprintf("Another source discussing %s", query),
		},
	}
}
