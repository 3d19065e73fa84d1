package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visioai/internal/domain"
)

const resultsPage = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fgrass">Grass facts</a>
  <a class="result__snippet">Grass is green because of chlorophyll.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.org/lawns">Lawn care</a>
  <a class="result__snippet">How to keep a lawn healthy.</a>
</div>
</body></html>`

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "why is grass green", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		io.WriteString(w, resultsPage)
	}))
	defer server.Close()

	client := NewClient(5)
	client.baseURL = server.URL

	results, err := client.Search(context.Background(), "why is grass green")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Grass facts", results[0].Title)
	assert.Equal(t, "Grass is green because of chlorophyll.", results[0].Snippet)
	assert.Equal(t, "https://example.com/grass", results[0].URL)
	assert.Equal(t, "https://example.org/lawns", results[1].URL)
}

func TestSearchCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 10; i++ {
			fmt.Fprintf(w, `<div class="result"><a class="result__a" href="https://example.com/%d">r%d</a></div>`, i, i)
		}
	}))
	defer server.Close()

	client := NewClient(3)
	client.baseURL = server.URL

	results, err := client.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchNoResultsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="no-results">No results.</div></body></html>`)
	}))
	defer server.Close()

	client := NewClient(5)
	client.baseURL = server.URL

	results, err := client.Search(context.Background(), "qzxv nonsense")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(5)
	client.baseURL = server.URL

	_, err := client.Search(context.Background(), "anything")
	var searchErr *domain.SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Equal(t, "anything", searchErr.Query)
}

func TestSearchEmptyQuery(t *testing.T) {
	client := NewClient(5)

	_, err := client.Search(context.Background(), "   ")
	var searchErr *domain.SearchError
	assert.ErrorAs(t, err, &searchErr)
}
