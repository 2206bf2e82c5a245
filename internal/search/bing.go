package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppiankov/evalia/internal/model"
)

type bingResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

// searchBing queries the Bing Web Search API
func (c *Client) searchBing(ctx context.Context, query string, numResults int) ([]model.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(numResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bingURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.creds.BingAPIKey)

	var parsed bingResponse
	if err := c.doJSON(req, &parsed); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(parsed.WebPages.Value))
	for _, r := range parsed.WebPages.Value {
		results = append(results, model.SearchResult{
			Title:   r.Name,
			URL:     r.URL,
			Snippet: r.Snippet,
		})
	}
	return results, nil
}
