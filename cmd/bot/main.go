package main

import (
	"context"
	"os/signal"
	"syscall"

	"financas-bot/internal/ai"
	"financas-bot/internal/bot"
	"financas-bot/internal/config"
	"financas-bot/internal/logger"
	"financas-bot/internal/repository"
	"financas-bot/internal/scheduler"
	"financas-bot/internal/service"
)

func main() {
	log := logger.New()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo repository.Repository
	if cfg.BoltPath != "" {
		boltRepo, err := repository.NewBoltRepository(cfg.BoltPath)
		if err != nil {
			log.Fatal().Err(err).Msg("bolt repository init failed")
		}
		defer boltRepo.Close()
		repo = boltRepo
		log.Info().Str("path", cfg.BoltPath).Msg("using local bolt storage")
	} else {
		repo, err = repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			log.Fatal().Err(err).Msg("supabase repository init failed")
		}
		log.Info().Msg("using supabase storage")
	}

	var textModel ai.TextModel
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		textModel = ai.NewClaude(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		textModel, err = ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini init failed")
		}
	}
	classifier := ai.NewClassifier(textModel, cfg.Options.ModelTimeout())

	tg, err := bot.New(cfg.TelegramToken, log)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram init failed")
	}

	tracker := service.NewTracker(repo)
	resolver := service.NewResolver(classifier, repo, cfg.Options.AmbiguousTerms, log)
	handler := service.NewHandler(tracker, resolver, repo, tg, cfg.Options.InteractionTimeout(), log)

	go scheduler.New(repo, tracker, tg, log).Run(ctx)

	tg.Run(ctx, handler.HandleMessage)
	log.Info().Msg("bot stopped")
}
