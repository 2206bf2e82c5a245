package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ppiankov/evalia/internal/model"
)

// Google Custom Search caps num at 10 per request
const googleMaxResults = 10

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// searchGoogle queries the Google Custom Search API
func (c *Client) searchGoogle(ctx context.Context, query string, numResults int) ([]model.SearchResult, error) {
	if numResults > googleMaxResults {
		numResults = googleMaxResults
	}

	params := url.Values{}
	params.Set("key", c.creds.GoogleAPIKey)
	params.Set("cx", c.creds.GoogleCSEID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.googleURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var parsed googleResponse
	if err := c.doJSON(req, &parsed); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(parsed.Items))
	for _, r := range parsed.Items {
		results = append(results, model.SearchResult{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		})
	}
	return results, nil
}
