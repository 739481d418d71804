package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "tok")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("BOLT_PATH", filepath.Join(t.TempDir(), "db.bolt"))
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("FINANCAS_CONFIG", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LLMProvider != ProviderGemini {
		t.Errorf("default provider = %q, want %q", cfg.LLMProvider, ProviderGemini)
	}
	if cfg.Options.InteractionTimeoutSeconds != 60 {
		t.Errorf("interaction timeout = %d, want 60", cfg.Options.InteractionTimeoutSeconds)
	}
	if cfg.Options.ModelTimeoutSeconds != 30 {
		t.Errorf("model timeout = %d, want 30", cfg.Options.ModelTimeoutSeconds)
	}
	if len(cfg.Options.AmbiguousTerms) != 1 || cfg.Options.AmbiguousTerms[0] != "transferência" {
		t.Errorf("ambiguous terms = %v", cfg.Options.AmbiguousTerms)
	}
}

func TestLoadConfigMissingToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing TELEGRAM_TOKEN")
	}
}

func TestLoadConfigUnknownProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_PROVIDER", "oracle")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadOptionsFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "financas.yaml")
	body := "interaction_timeout_seconds: 10\nambiguous_terms:\n  - transferência\n  - pix\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FINANCAS_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Options.InteractionTimeoutSeconds != 10 {
		t.Errorf("interaction timeout = %d, want 10", cfg.Options.InteractionTimeoutSeconds)
	}
	// Campo ausente no YAML mantém o default.
	if cfg.Options.ModelTimeoutSeconds != 30 {
		t.Errorf("model timeout = %d, want 30", cfg.Options.ModelTimeoutSeconds)
	}
	if len(cfg.Options.AmbiguousTerms) != 2 {
		t.Errorf("ambiguous terms = %v, want 2 entries", cfg.Options.AmbiguousTerms)
	}
}
