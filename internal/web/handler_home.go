package web

import (
	"net/http"

	"visioai/internal/domain"
)

type homeData struct {
	Providers        []domain.Provider
	CurrentProvider  domain.Provider
	Mode             domain.Mode
	WebSearchEnabled bool
	Insight          *domain.Insight
	History          []domain.ChatTurn
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess := sessionFrom(r)
	provider, mode, webSearch := sess.Settings()

	data := homeData{
		Providers:        s.providers,
		CurrentProvider:  provider,
		Mode:             mode,
		WebSearchEnabled: webSearch,
		Insight:          sess.Insight(),
		History:          sess.History(),
	}

	if err := s.renderPage(w, data,
		"base.html", "pages/home.html", "partials/insight.html", "partials/chat_log.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
