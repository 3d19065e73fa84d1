package web

import (
	"context"
	"encoding/json"
	"net/http"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	question := r.FormValue("question")

	if _, err := s.chat.Ask(r.Context(), sess, question); err != nil {
		s.renderError(w, sess.ID, "chat", err)
		return
	}

	if err := s.renderPartial(w, "partials/chat_log.html", sess.History()); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

// handleChatStream answers over SSE. Each event carries a JSON object
// {"text":"..."} with an answer chunk; the stream ends with a "done" event.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	question := r.FormValue("question")

	// Use a detached context so the model call runs to completion and the
	// turn is committed even if the client navigates away mid-stream.
	ch, err := s.chat.AskStream(context.WithoutCancel(r.Context()), sess, question)
	if err != nil {
		s.renderError(w, sess.ID, "chat stream", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, canFlush := w.(http.Flusher)

	enc := json.NewEncoder(w)
	for ev := range ch {
		if r.Context().Err() != nil {
			return
		}
		if ev.Err != nil {
			s.logger.Error("chat stream error", "session_id", sess.ID, "error", ev.Err)
			return
		}
		if _, err := w.Write([]byte("data: ")); err != nil {
			return
		}
		if err := enc.Encode(map[string]string{"text": ev.Text}); err != nil {
			return
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}

	if _, err := w.Write([]byte("event: done\ndata: {}\n\n")); err != nil {
		s.logger.Error("write done event failed", "session_id", sess.ID, "error", err)
	}
	if canFlush {
		flusher.Flush()
	}
}
