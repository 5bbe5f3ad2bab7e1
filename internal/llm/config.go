package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the provider behind explanations.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter"
	// or "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Resilience ResilienceConfig

	// Timeout bounds one explanation, retries included.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// ResilienceConfig bounds retries of transient failures and sets when
// a failing provider is given a rest.
type ResilienceConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// TripAfter consecutive failed requests open the circuit for
	// ResetTimeout.
	TripAfter    int
	ResetTimeout time.Duration
}

// DefaultConfig returns the built-in provider settings.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Resilience: ResilienceConfig{
			MaxAttempts:  2,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     4 * time.Second,
			TripAfter:    3,
			ResetTimeout: time.Minute,
		},
		Timeout: 15 * time.Second,
	}
}

// ConfigFromEnv reads ENGLIFISH_* provider variables over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("ENGLIFISH_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if k := os.Getenv("ENGLIFISH_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("ENGLIFISH_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("ENGLIFISH_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("ENGLIFISH_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("ENGLIFISH_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("ENGLIFISH_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("ENGLIFISH_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if k := os.Getenv("ENGLIFISH_OPENROUTER_API_KEY"); k != "" {
		cfg.OpenRouter.APIKey = k
	}
	if m := os.Getenv("ENGLIFISH_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	return cfg
}

// DiscoverConfig falls back to the vendors' own key variables, checked
// in the order Gemini, OpenAI, Anthropic, OpenRouter.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate reports a missing key for the selected provider.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ENGLIFISH_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("ENGLIFISH_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("ENGLIFISH_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("ENGLIFISH_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// Resolve picks the provider for explanations. An explicit provider from
// the app config wins; otherwise ENGLIFISH_* keys are used, then the
// vendors' variables. It returns false when no provider has a key.
func Resolve(provider, model string) (Config, bool) {
	cfg := ConfigFromEnv()
	if provider != "" {
		cfg.Provider = provider
	} else if cfg.Validate() != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return Config{}, false
		}
		cfg = discovered
	}
	if model != "" {
		cfg.setModel(model)
	}
	if cfg.Validate() != nil {
		return Config{}, false
	}
	return cfg, true
}

func (c *Config) setModel(model string) {
	switch c.Provider {
	case "anthropic":
		c.Anthropic.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "gemini":
		c.Gemini.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
}
