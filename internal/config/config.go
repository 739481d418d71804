package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

// Provedores de modelo de linguagem suportados.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	TelegramToken string

	LLMProvider     string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string

	SupabaseURL string
	SupabaseKey string
	// BoltPath, quando definido, seleciona o armazenamento local em
	// BoltDB no lugar do Supabase.
	BoltPath string

	Options Options
}

// Options são os ajustes finos carregados do arquivo YAML opcional
// apontado por FINANCAS_CONFIG.
type Options struct {
	InteractionTimeoutSeconds int      `yaml:"interaction_timeout_seconds"`
	ModelTimeoutSeconds       int      `yaml:"model_timeout_seconds"`
	AmbiguousTerms            []string `yaml:"ambiguous_terms"`
}

// InteractionTimeout é o prazo de uma interação pendente (esclarecimento,
// confirmação de exclusão, aprovação de categoria).
func (o Options) InteractionTimeout() time.Duration {
	return time.Duration(o.InteractionTimeoutSeconds) * time.Second
}

// ModelTimeout limita cada chamada ao modelo de linguagem.
func (o Options) ModelTimeout() time.Duration {
	return time.Duration(o.ModelTimeoutSeconds) * time.Second
}

func defaultOptions() Options {
	return Options{
		InteractionTimeoutSeconds: 60,
		ModelTimeoutSeconds:       30,
		AmbiguousTerms:            []string{"transferência"},
	}
}

func LoadConfig() (*Config, error) {
	// .env é opcional; em produção as variáveis vêm do ambiente.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		LLMProvider:     os.Getenv("LLM_PROVIDER"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  os.Getenv("ANTHROPIC_MODEL"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_KEY"),
		BoltPath:        os.Getenv("BOLT_PATH"),
		Options:         defaultOptions(),
	}

	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderGemini
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}
	if cfg.AnthropicModel == "" {
		cfg.AnthropicModel = "claude-sonnet-4-5-20250929"
	}

	if path := os.Getenv("FINANCAS_CONFIG"); path != "" {
		if err := loadOptions(path, &cfg.Options); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("config: TELEGRAM_TOKEN is required")
	}
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config: GEMINI_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("config: ANTHROPIC_API_KEY is required for provider %q", c.LLMProvider)
		}
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.BoltPath == "" && (c.SupabaseURL == "" || c.SupabaseKey == "") {
		return fmt.Errorf("config: either BOLT_PATH or SUPABASE_URL/SUPABASE_KEY must be set")
	}
	return nil
}

// loadOptions sobrepõe os defaults com os campos presentes no YAML.
func loadOptions(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	loaded := *opts
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if loaded.InteractionTimeoutSeconds <= 0 {
		loaded.InteractionTimeoutSeconds = opts.InteractionTimeoutSeconds
	}
	if loaded.ModelTimeoutSeconds <= 0 {
		loaded.ModelTimeoutSeconds = opts.ModelTimeoutSeconds
	}
	if len(loaded.AmbiguousTerms) == 0 {
		loaded.AmbiguousTerms = opts.AmbiguousTerms
	}
	*opts = loaded
	return nil
}
