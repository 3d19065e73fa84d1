package web

import (
	"errors"
	"io"
	"net/http"

	"visioai/internal/domain"
)

const maxUploadSize = 20 * 1024 * 1024 // 20 MB

// sniffImageMIME detects the upload's real format from its magic bytes.
// Only PNG and JPEG are accepted; the client-declared Content-Type is not
// trusted.
func sniffImageMIME(data []byte) (string, bool) {
	mime := http.DetectContentType(data)
	switch mime {
	case "image/png", "image/jpeg":
		return mime, true
	}
	return "", false
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer closeWithLog(file, "upload file", s)

	imageData, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		s.logger.Error("read upload failed", "session_id", sess.ID, "error", err)
		return
	}

	mimeType, ok := sniffImageMIME(imageData)
	if !ok {
		http.Error(w, domain.ErrUnsupportedImage.Error(), http.StatusBadRequest)
		return
	}

	insight, err := s.extract.ProcessImage(r.Context(), sess, imageData, mimeType, r.FormValue("instruction"))
	if err != nil {
		s.renderError(w, sess.ID, "process image", err)
		return
	}

	if err := s.renderPartial(w, "partials/insight.html", &insight); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

// renderError maps a domain error to a user-visible message and status code.
// Validation problems are the user's to fix (400); unconfigured providers are
// the operator's (500); upstream failures are gateway errors (502).
func (s *Server) renderError(w http.ResponseWriter, sessionID, op string, err error) {
	var provErr *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrInstructionRequired),
		errors.Is(err, domain.ErrUnsupportedImage),
		errors.Is(err, domain.ErrNoInsight),
		errors.Is(err, domain.ErrEmptyQuestion):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrProviderNotConfigured):
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "session_id", sessionID, "error", err)
	case errors.As(err, &provErr):
		http.Error(w, "the model provider request failed: "+provErr.Error(), http.StatusBadGateway)
		s.logger.Error(op+" failed", "session_id", sessionID, "error", err)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
		s.logger.Error(op+" failed", "session_id", sessionID, "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, s *Server) {
	if err := c.Close(); err != nil {
		s.logger.Error("failed to close resource", "label", label, "error", err)
	}
}
