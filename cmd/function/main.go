package main

import (
	"context"

	"financas-bot/internal/ai"
	"financas-bot/internal/bot"
	"financas-bot/internal/config"
	"financas-bot/internal/logger"
	"financas-bot/internal/repository"
	"financas-bot/internal/service"
)

// Request é o envelope do API Gateway para o webhook do Telegram.
type Request struct {
	Body string `json:"body"`
}

// Response é o envelope de resposta esperado pelo API Gateway.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler é o ponto de entrada serverless: monta o assistente por
// invocação e processa um update de webhook. Nesse modo o repositório
// precisa ser o Supabase; um arquivo Bolt local não sobrevive entre
// invocações.
func Handler(ctx context.Context, request Request) (*Response, error) {
	log := logger.New()

	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return errorResponse(err)
	}

	var textModel ai.TextModel
	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		textModel = ai.NewClaude(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		textModel, err = ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return errorResponse(err)
		}
	}
	classifier := ai.NewClassifier(textModel, cfg.Options.ModelTimeout())

	tg, err := bot.New(cfg.TelegramToken, log)
	if err != nil {
		return errorResponse(err)
	}

	tracker := service.NewTracker(repo)
	resolver := service.NewResolver(classifier, repo, cfg.Options.AmbiguousTerms, log)
	handler := service.NewHandler(tracker, resolver, repo, tg, cfg.Options.InteractionTimeout(), log)

	if err := tg.HandleWebhook(ctx, []byte(request.Body), handler.HandleMessage); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Ponto de entrada para teste local.
}
