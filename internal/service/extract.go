package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"visioai/internal/domain"
	"visioai/internal/model"
	"visioai/internal/session"
)

// generatorRegistry is the subset of model.Registry the orchestrators need.
type generatorRegistry interface {
	Generator(p domain.Provider) (model.Generator, error)
}

// Extractor is the image processing orchestrator: it turns an uploaded image
// plus the session's mode and optional user instructions into a stored
// insight.
type Extractor struct {
	models generatorRegistry
	logger *slog.Logger
}

func NewExtractor(models generatorRegistry, logger *slog.Logger) *Extractor {
	return &Extractor{models: models, logger: logger}
}

// acceptedMIMETypes are the upload formats the product supports.
var acceptedMIMETypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// ProcessImage runs the session's extraction mode over the image and
// replaces the session's insight with the final model output. On any error
// the session is left exactly as it was.
func (e *Extractor) ProcessImage(ctx context.Context, sess *session.Session, image []byte, mimeType, instruction string) (domain.Insight, error) {
	provider, mode, _ := sess.Settings()
	instruction = strings.TrimSpace(instruction)

	if !acceptedMIMETypes[mimeType] {
		return domain.Insight{}, domain.ErrUnsupportedImage
	}
	if mode == domain.ModeManual && instruction == "" {
		return domain.Insight{}, domain.ErrInstructionRequired
	}

	gen, err := e.models.Generator(provider)
	if err != nil {
		return domain.Insight{}, err
	}

	e.logger.Info("image processing started",
		"session_id", sess.ID, "provider", provider, "mode", mode,
		"mime_type", mimeType, "bytes", len(image))

	var text string
	switch mode {
	case domain.ModeAuto:
		text, err = gen.Generate(ctx, model.Request{
			Image:       image,
			MimeType:    mimeType,
			Instruction: model.DefaultInstruction,
		})
	case domain.ModeManual:
		text, err = gen.Generate(ctx, model.Request{
			Image:       image,
			MimeType:    mimeType,
			Instruction: instruction,
		})
	case domain.ModeHybrid:
		text, err = e.processHybrid(ctx, gen, image, mimeType, instruction)
	default:
		return domain.Insight{}, fmt.Errorf("unknown extraction mode %q", mode)
	}
	if err != nil {
		return domain.Insight{}, err
	}

	insight := sess.ReplaceInsight(text, provider, mode)
	e.logger.Info("image processing complete",
		"session_id", sess.ID, "insight_version", insight.Version, "chars", len(text))
	return insight, nil
}

// processHybrid runs the default extraction first, then refines it with the
// user instruction if one was supplied. The refinement call sees both the
// first pass's output and the user's request; only its output survives.
func (e *Extractor) processHybrid(ctx context.Context, gen model.Generator, image []byte, mimeType, instruction string) (string, error) {
	text, err := gen.Generate(ctx, model.Request{
		Image:       image,
		MimeType:    mimeType,
		Instruction: model.DefaultInstruction,
	})
	if err != nil {
		return "", err
	}
	if instruction == "" {
		return text, nil
	}

	refined := fmt.Sprintf(
		"%s\n\nInitial analysis of this image:\n%s\n\nRequest from user to extract information: %s",
		model.DefaultInstruction, text, instruction)
	return gen.Generate(ctx, model.Request{
		Image:       image,
		MimeType:    mimeType,
		Instruction: refined,
	})
}
