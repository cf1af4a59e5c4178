package llm

import (
	"context"
	"fmt"
	"strings"

	"sourcebook/internal/config"
	"sourcebook/internal/logging"
)

// NewClient creates the generation backend named by the configuration.
// Supported providers: "gemini" (direct REST), "gemini-sdk" (official GenAI
// SDK), "ollama" (local server).
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if provider == "" {
		provider = "gemini"
	}

	logging.Boot("Creating LLM client: provider=%s model=%s", provider, cfg.LLM.Model)

	switch provider {
	case "gemini":
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key (set GEMINI_API_KEY or llm.api_key)")
		}
		gc := DefaultGeminiConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			gc.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			gc.BaseURL = cfg.LLM.BaseURL
		}
		gc.Timeout = cfg.GetLLMTimeout()
		return NewGeminiClient(gc), nil

	case "gemini-sdk":
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("gemini-sdk provider requires an API key (set GEMINI_API_KEY or llm.api_key)")
		}
		return NewGenAIClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)

	case "ollama":
		return NewOllamaClient(cfg.LLM.OllamaHost, cfg.LLM.Model, cfg.GetLLMTimeout()), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLM.Provider)
	}
}
