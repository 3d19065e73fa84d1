package web

import (
	"fmt"
	"net/http"
	"strings"
)

// handleExport downloads the session's chat transcript as a Markdown file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var sb strings.Builder
	sb.WriteString("# VisioAI - Chat History\n\n")
	if insight := sess.Insight(); insight != nil {
		fmt.Fprintf(&sb, "## Extracted Image Insights (#%d)\n%s\n\n", insight.Version, insight.Text)
	}
	for _, turn := range sess.History() {
		fmt.Fprintf(&sb, "### 👤 User\n%s\n\n", turn.Question)
		fmt.Fprintf(&sb, "### 🤖 Assistant\n%s\n\n", turn.Answer)
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="visioai-chat.md"`)
	if _, err := w.Write([]byte(sb.String())); err != nil {
		s.logger.Error("write export failed", "session_id", sess.ID, "error", err)
	}
}

// handleReset discards the session (insight, history, settings) and issues a
// fresh one on the next request.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.sessions.Drop(sess.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	s.logger.Info("session reset", "session_id", sess.ID)
	w.Header().Set("HX-Redirect", "/")
	w.WriteHeader(http.StatusOK)
}
