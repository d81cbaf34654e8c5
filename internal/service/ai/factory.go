package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kapu/localization-connect-go/internal/config"
)

// NewProvider builds the provider selected by TRANSLATION_PROVIDER.
func NewProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Provider, error) {
	maxTokens := cfg.Translation.MaxTokens

	switch cfg.Translation.Provider {
	case "claude":
		return NewClaudeProvider(cfg.Claude.APIKey, cfg.Claude.APIURL, cfg.Claude.Model, maxTokens, logger), nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, maxTokens, logger)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, maxTokens, nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Translation.Provider)
	}
}
