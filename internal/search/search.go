package search

import (
	"context"
	"fmt"
	"strings"

	"visioai/internal/domain"
)

// Client sends a query to a web search service and returns ranked result
// snippets. An empty slice is a valid outcome (no results found) and is
// distinct from a failure, which is reported as *domain.SearchError.
type Client interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// FormatSnippets renders results as a plain-text block suitable for
// inclusion in a model prompt.
func FormatSnippets(results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n%s\n(%s)\n", i+1, r.Title, r.Snippet, r.URL)
	}
	return sb.String()
}
