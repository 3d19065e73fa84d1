package domain

import "time"

// Provider identifies the hosted multimodal model service a session talks to.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// ParseProvider returns the Provider for s, or ok=false if s names no
// known provider.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderOpenAI, ProviderGemini:
		return Provider(s), true
	}
	return "", false
}

// Mode governs whether user instructions are required before an image is
// processed.
type Mode string

const (
	// ModeAuto extracts with a fixed default instruction; no user text needed.
	ModeAuto Mode = "auto"
	// ModeManual requires a non-empty user instruction.
	ModeManual Mode = "manual"
	// ModeHybrid runs the default extraction first, then refines it with the
	// user instruction if one was supplied.
	ModeHybrid Mode = "hybrid"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeAuto, ModeManual, ModeHybrid:
		return Mode(s), true
	}
	return "", false
}

// Insight is the free-text output of a multimodal model for one processed
// image. At most one insight is live per session; processing a new image
// replaces it wholesale.
type Insight struct {
	Text      string
	Version   int
	Provider  Provider
	Mode      Mode
	CreatedAt time.Time
}

// ChatTurn is one question/answer pair in a session's transcript.
// InsightVersion records which insight the answer was generated against, so
// the transcript stays interpretable after the insight is replaced.
type ChatTurn struct {
	Question       string
	Answer         string
	InsightVersion int
	AskedAt        time.Time
}

// SearchResult is one entry returned by the web search adapter.
type SearchResult struct {
	Title   string
	Snippet string
	URL     string
}
