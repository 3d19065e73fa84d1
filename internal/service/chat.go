package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"visioai/internal/domain"
	"visioai/internal/model"
	"visioai/internal/search"
	"visioai/internal/session"
)

// Chat answers follow-up questions against the session's live insight,
// optionally augmented with web-search snippets.
type Chat struct {
	models   generatorRegistry
	searcher search.Client
	logger   *slog.Logger
}

func NewChat(models generatorRegistry, searcher search.Client, logger *slog.Logger) *Chat {
	return &Chat{models: models, searcher: searcher, logger: logger}
}

// Ask generates an answer and appends the completed turn to the session's
// transcript. A failed model call leaves the transcript untouched.
func (c *Chat) Ask(ctx context.Context, sess *session.Session, question string) (string, error) {
	gen, instruction, err := c.prepare(ctx, sess, question)
	if err != nil {
		return "", err
	}

	answer, err := gen.Generate(ctx, model.Request{Instruction: instruction})
	if err != nil {
		return "", err
	}

	sess.AppendTurn(strings.TrimSpace(question), answer)
	c.logger.Info("chat turn complete", "session_id", sess.ID, "answer_chars", len(answer))
	return answer, nil
}

// AskStream is the streaming variant of Ask: answer chunks are delivered on
// the returned channel as the model emits them, and the completed turn is
// appended to the transcript only after the stream ends cleanly. Generators
// without stream support fall back to a single-chunk synchronous call.
func (c *Chat) AskStream(ctx context.Context, sess *session.Session, question string) (<-chan model.StreamEvent, error) {
	gen, instruction, err := c.prepare(ctx, sess, question)
	if err != nil {
		return nil, err
	}

	question = strings.TrimSpace(question)

	sg, ok := gen.(model.StreamGenerator)
	if !ok {
		answer, err := gen.Generate(ctx, model.Request{Instruction: instruction})
		if err != nil {
			return nil, err
		}
		sess.AppendTurn(question, answer)
		ch := make(chan model.StreamEvent, 1)
		ch <- model.StreamEvent{Text: answer}
		close(ch)
		return ch, nil
	}

	rawCh, err := sg.GenerateStream(ctx, model.Request{Instruction: instruction})
	if err != nil {
		return nil, err
	}

	out := make(chan model.StreamEvent, 16)
	go func() {
		defer close(out)
		var answer strings.Builder
		for ev := range rawCh {
			out <- ev
			if ev.Err != nil {
				c.logger.Error("chat stream failed", "session_id", sess.ID, "error", ev.Err)
				return
			}
			answer.WriteString(ev.Text)
		}
		sess.AppendTurn(question, answer.String())
		c.logger.Info("chat turn complete", "session_id", sess.ID, "answer_chars", answer.Len())
	}()
	return out, nil
}

// prepare validates the question, resolves the generator, runs the optional
// web search, and builds the final instruction text.
func (c *Chat) prepare(ctx context.Context, sess *session.Session, question string) (model.Generator, string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, "", domain.ErrEmptyQuestion
	}

	insight := sess.Insight()
	if insight == nil {
		return nil, "", domain.ErrNoInsight
	}

	provider, _, webSearch := sess.Settings()
	gen, err := c.models.Generator(provider)
	if err != nil {
		return nil, "", err
	}

	var snippets string
	if webSearch {
		results, err := c.searcher.Search(ctx, question)
		switch {
		case err == nil:
			snippets = search.FormatSnippets(results)
			c.logger.Info("web search complete", "session_id", sess.ID, "results", len(results))
		default:
			// A failed search is recoverable: answer from the insight alone.
			var searchErr *domain.SearchError
			if !errors.As(err, &searchErr) {
				return nil, "", err
			}
			c.logger.Warn("web search failed, answering without search context",
				"session_id", sess.ID, "error", err)
		}
	}

	return gen, buildChatInstruction(insight.Text, snippets, question), nil
}

// buildChatInstruction assembles the chat prompt from the live insight, the
// optional search snippets, and the user's question.
func buildChatInstruction(insight, snippets, question string) string {
	var sb strings.Builder
	sb.WriteString("You are a chat agent who answers follow-up questions based on extracted image data.\n")
	sb.WriteString("Understand the requirement properly and then answer the question correctly.\n\n")
	fmt.Fprintf(&sb, "Extracted Image Data: %s\n", insight)
	if snippets != "" {
		fmt.Fprintf(&sb, "\nWeb search results:\n%s\n", snippets)
	}
	fmt.Fprintf(&sb, "\nUse the above image insights to answer the following question.\n")
	fmt.Fprintf(&sb, "Answer the following question from the above given extracted image data: %s", question)
	return sb.String()
}
