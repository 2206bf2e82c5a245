package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppiankov/evalia/internal/model"
)

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// searchSerpAPI queries SerpAPI's Google engine
func (c *Client) searchSerpAPI(ctx context.Context, query string, numResults int) ([]model.SearchResult, error) {
	params := url.Values{}
	params.Set("api_key", c.creds.SerpAPIKey)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))
	params.Set("engine", "google")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serpAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var parsed serpAPIResponse
	if err := c.doJSON(req, &parsed); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		})
	}
	return results, nil
}
