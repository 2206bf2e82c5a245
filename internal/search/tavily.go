package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ppiankov/evalia/internal/model"
)

const tavilySnippetLimit = 200

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// searchTavily queries the Tavily search API
func (c *Client) searchTavily(ctx context.Context, query string, numResults int) ([]model.SearchResult, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:     c.creds.TavilyAPIKey,
		Query:      query,
		MaxResults: numResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tavilyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var parsed tavilyResponse
	if err := c.doJSON(req, &parsed); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		snippet := r.Content
		if len(snippet) > tavilySnippetLimit {
			snippet = snippet[:tavilySnippetLimit]
		}
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: snippet,
		})
	}
	return results, nil
}

// doJSON executes the request and decodes a 2xx JSON body into v
func (c *Client) doJSON(req *http.Request, v interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	return nil
}
