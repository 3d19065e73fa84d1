package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DefaultProvider)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("OPENAI_API_KEY", "sk-test123")
	t.Setenv("DEFAULT_PROVIDER", "gemini")
	t.Setenv("SEARCH_MAX_RESULTS", "3")
	t.Setenv("SESSION_TTL", "5m")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "sk-test123", cfg.OpenAIAPIKey)
	assert.Equal(t, "gemini", cfg.DefaultProvider)
	assert.Equal(t, 3, cfg.SearchMaxResults)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SEARCH_MAX_RESULTS", "zero")
	t.Setenv("SESSION_TTL", "-10m")

	cfg := Load()

	assert.Equal(t, 5, cfg.SearchMaxResults)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}
