package model

import "context"

// DefaultInstruction is the extraction prompt used in Auto mode and for the
// first pass of Hybrid mode.
const DefaultInstruction = `Describe the objects, text, and scene in this image.
Detect and categorise every notable object, read any visible text (signs,
labels, documents, number plates), and summarise the overall scene. Report
the results as clearly structured plain text.`

// Request is one generation call. Image is nil for text-only chat calls;
// when set, MimeType must describe it. Instruction must be non-empty.
type Request struct {
	Image       []byte
	MimeType    string
	Instruction string
}

// Generator sends an instruction (and optionally an image) to a hosted
// multimodal model and returns the generated text verbatim. Failures are
// reported as *domain.ProviderError; calls are never retried or cached.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// StreamGenerator is an optional extension of Generator that can stream the
// generated text incrementally as the model produces it.
type StreamGenerator interface {
	Generator
	// GenerateStream sends text chunks on the returned channel as the model
	// emits them. The channel is closed when the stream ends or ctx is
	// cancelled. A mid-stream failure is delivered as a final event with a
	// non-nil Err.
	GenerateStream(ctx context.Context, req Request) (<-chan StreamEvent, error)
}

// StreamEvent is either a text chunk or an error emitted during streaming.
type StreamEvent struct {
	Text string
	Err  error
}

// Collect drains a stream channel into the full response text, returning the
// first error encountered.
func Collect(ch <-chan StreamEvent) (string, error) {
	var out []byte
	for ev := range ch {
		if ev.Err != nil {
			return string(out), ev.Err
		}
		out = append(out, ev.Text...)
	}
	return string(out), nil
}
