package duckduckgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"visioai/internal/domain"
)

// DuckDuckGo has no official API; the stable integration point is the HTML
// endpoint used by non-JS browsers.
const defaultBaseURL = "https://html.duckduckgo.com/html/"

type Client struct {
	client     *http.Client
	baseURL    string
	maxResults int
}

func NewClient(maxResults int) *Client {
	if maxResults < 1 {
		maxResults = 5
	}
	return &Client{
		client:     &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		maxResults: maxResults,
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("empty query")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("create request: %w", err)}
	}
	// The endpoint rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) visioai/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("call duckduckgo: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("parse results page: %w", err)}
	}

	var results []domain.SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := sel.Find("a.result__a")
		link, _ := title.Attr("href")
		r := domain.SearchResult{
			Title:   strings.TrimSpace(title.Text()),
			Snippet: strings.TrimSpace(sel.Find("a.result__snippet").Text()),
			URL:     unwrapRedirect(link),
		}
		if r.Title == "" && r.Snippet == "" {
			return true
		}
		results = append(results, r)
		return len(results) < c.maxResults
	})

	// No div.result nodes is a legitimate zero-result page, not an error.
	return results, nil
}

// unwrapRedirect extracts the target URL from DuckDuckGo's /l/?uddg=...
// redirect links, falling back to the raw href.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
