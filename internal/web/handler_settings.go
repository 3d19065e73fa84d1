package web

import (
	"net/http"

	"visioai/internal/domain"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	provider, ok := domain.ParseProvider(r.FormValue("provider"))
	if !ok {
		http.Error(w, "unknown provider", http.StatusBadRequest)
		return
	}
	mode, ok := domain.ParseMode(r.FormValue("mode"))
	if !ok {
		http.Error(w, "unknown extraction mode", http.StatusBadRequest)
		return
	}
	webSearch := r.FormValue("web_search") == "on"

	sess.Configure(provider, mode, webSearch)
	s.logger.Debug("session configured",
		"session_id", sess.ID, "provider", provider, "mode", mode, "web_search", webSearch)
	w.WriteHeader(http.StatusNoContent)
}
