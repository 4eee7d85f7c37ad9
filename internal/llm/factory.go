package llm

import (
	"errors"
	"fmt"

	"github.com/laramiej/ai-daytrading/internal/config"
)

// ErrDebateUnsupported is returned by providers that cannot run the
// three-stage debate. Callers check for it and fall back to single-shot
// analysis.
var ErrDebateUnsupported = errors.New("provider does not support debate mode")

// NewProvider builds the provider named in the configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.RequestTimeout), nil
	case "gemini":
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY is required for the gemini provider")
		}
		return NewGeminiProvider(cfg.GoogleAPIKey, cfg.GeminiModel, cfg.RequestTimeout), nil
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("LLM_WEBHOOK_URL is required for the webhook provider")
		}
		return NewWebhookProvider(cfg.WebhookURL, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: anthropic, gemini, webhook)", cfg.Provider)
	}
}
