package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visioai/internal/domain"
	"visioai/internal/model"
)

func geminiResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestGenerate(t *testing.T) {
	var gotBody request
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(geminiResponse("A dog on grass."))
	}))
	defer server.Close()

	client := NewClient("key-test", "gemini-2.0-flash")
	client.baseURL = server.URL

	text, err := client.Generate(context.Background(), model.Request{
		Image:       []byte{0x89, 0x50, 0x4E, 0x47},
		MimeType:    "image/png",
		Instruction: "describe this image",
	})
	require.NoError(t, err)
	assert.Equal(t, "A dog on grass.", text)

	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Contains(t, gotQuery, "key=key-test")
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 2)
	assert.Equal(t, "describe this image", gotBody.Contents[0].Parts[0].Text)
	assert.Equal(t, "image/png", gotBody.Contents[0].Parts[1].InlineData.MimeType)
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "API key not valid", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("bad-key", "gemini-2.0-flash")
	client.baseURL = server.URL

	_, err := client.Generate(context.Background(), model.Request{Instruction: "hi"})
	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, domain.ProviderGemini, provErr.Provider)
	assert.Equal(t, http.StatusForbidden, provErr.Status)
}

func TestGenerateNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := NewClient("key-test", "gemini-2.0-flash")
	client.baseURL = server.URL

	_, err := client.Generate(context.Background(), model.Request{Instruction: "hi"})
	assert.Error(t, err)
}

func TestGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":streamGenerateContent"))
		assert.Contains(t, r.URL.RawQuery, "alt=sse")
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"Gre", "en."} {
			data, _ := json.Marshal(geminiResponse(delta))
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
	}))
	defer server.Close()

	client := NewClient("key-test", "gemini-2.0-flash")
	client.baseURL = server.URL

	ch, err := client.GenerateStream(context.Background(), model.Request{Instruction: "What color is the grass?"})
	require.NoError(t, err)

	text, err := model.Collect(ch)
	require.NoError(t, err)
	assert.Equal(t, "Green.", text)
}
