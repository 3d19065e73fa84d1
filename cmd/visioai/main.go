package main

import (
	"log"

	"visioai/internal/config"
	"visioai/internal/domain"
	"visioai/internal/logging"
	"visioai/internal/model"
	"visioai/internal/model/gemini"
	"visioai/internal/model/openai"
	"visioai/internal/search/duckduckgo"
	"visioai/internal/service"
	"visioai/internal/session"
	"visioai/internal/web"
	"visioai/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	registry := model.NewRegistry()
	if cfg.OpenAIAPIKey != "" {
		registry.Register(domain.ProviderOpenAI, openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel))
		logger.Info("openai provider configured", "model", cfg.OpenAIModel)
	}
	if cfg.GoogleAPIKey != "" {
		registry.Register(domain.ProviderGemini, gemini.NewClient(cfg.GoogleAPIKey, cfg.GeminiModel))
		logger.Info("gemini provider configured", "model", cfg.GeminiModel)
	}
	if registry.Empty() {
		logger.Error("no model provider configured: set OPENAI_API_KEY and/or GOOGLE_API_KEY")
		return
	}

	defaultProvider, ok := domain.ParseProvider(cfg.DefaultProvider)
	if !ok {
		logger.Error("unknown DEFAULT_PROVIDER", "value", cfg.DefaultProvider)
		return
	}
	if _, err := registry.Generator(defaultProvider); err != nil {
		// New sessions start on a provider that actually has a key.
		defaultProvider = registry.Providers()[0]
		logger.Warn("default provider has no API key, falling back",
			"configured", cfg.DefaultProvider, "using", defaultProvider)
	}

	sessions := session.NewManager(defaultProvider, cfg.SessionTTL)
	searcher := duckduckgo.NewClient(cfg.SearchMaxResults)

	extractor := service.NewExtractor(registry, logger)
	chat := service.NewChat(registry, searcher, logger)

	server := web.NewServer(extractor, chat, sessions, registry.Providers(), templates.FS, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
