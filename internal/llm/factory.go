package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/englifish/englifish/internal/store"
)

// NewProvider builds the configured provider as
// caller → resilience → logging → base. repo may be nil.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger, repo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewOfflineProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithResilience(WithLogging(base, logger, repo), cfg.Resilience, logger), nil
}
