package session

import (
	"sync"
	"time"

	"visioai/internal/domain"
)

// Session is the in-memory state for one browser connection: the selected
// provider and mode, the web-search toggle, the single live insight, and the
// append-only chat transcript. All mutation goes through methods so a failed
// orchestrator call can never leave a session half-updated.
//
// The mutex guards against two tabs sharing one cookie; there is no
// cross-session shared state.
type Session struct {
	ID string

	mu        sync.Mutex
	provider  domain.Provider
	mode      domain.Mode
	webSearch bool
	insight   *domain.Insight
	history   []domain.ChatTurn
}

func New(id string, provider domain.Provider) *Session {
	return &Session{
		ID:       id,
		provider: provider,
		mode:     domain.ModeAuto,
	}
}

// Settings returns the session's current provider, mode, and search toggle.
func (s *Session) Settings() (domain.Provider, domain.Mode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider, s.mode, s.webSearch
}

func (s *Session) Configure(provider domain.Provider, mode domain.Mode, webSearch bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = provider
	s.mode = mode
	s.webSearch = webSearch
}

// Insight returns a copy of the live insight, or nil if no image has been
// processed yet.
func (s *Session) Insight() *domain.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return nil
	}
	cp := *s.insight
	return &cp
}

// ReplaceInsight overwrites the live insight with text and bumps the insight
// version. The transcript is kept: turns answered against an earlier insight
// stay tagged with that insight's version.
func (s *Session) ReplaceInsight(text string, provider domain.Provider, mode domain.Mode) domain.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := 1
	if s.insight != nil {
		version = s.insight.Version + 1
	}
	s.insight = &domain.Insight{
		Text:      text,
		Version:   version,
		Provider:  provider,
		Mode:      mode,
		CreatedAt: time.Now(),
	}
	return *s.insight
}

// AppendTurn records a completed question/answer pair against the live
// insight's version. It must only be called after a successful model call.
func (s *Session) AppendTurn(question, answer string) domain.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turn := domain.ChatTurn{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	}
	if s.insight != nil {
		turn.InsightVersion = s.insight.Version
	}
	s.history = append(s.history, turn)
	return turn
}

// History returns a copy of the chat transcript in insertion order.
func (s *Session) History() []domain.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatTurn, len(s.history))
	copy(out, s.history)
	return out
}
