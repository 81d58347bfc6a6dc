package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/workdesk-labs/work-mediator/internal/config"
)

const defaultOllamaURL = "http://localhost:11434"

// New selects the backend variant named by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (Generator, error) {
	opts := LangchainOptions{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout(),
	}
	switch cfg.Provider {
	case "ollama":
		serverURL := cfg.BaseURL
		if serverURL == "" {
			serverURL = defaultOllamaURL
		}
		return NewOllamaGenerator(serverURL, cfg.Model, opts, logger)
	case "openai":
		return NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL, opts, logger)
	case "gemini":
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.Timeout(), logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
