package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// modelAliases maps short names accepted in PATHWISE_*_MODEL to model ids.
// Unknown names are sent as given.
var modelAliases = map[string]map[string]string{
	ProviderAnthropic: {
		"claude-haiku":  "claude-haiku-4-5-20251001",
		"claude-sonnet": "claude-sonnet-4-5-20250929",
	},
	ProviderOpenAI: {
		"gpt":      "gpt-4o",
		"gpt-mini": "gpt-4o-mini",
	},
	ProviderGemini: {
		"gemini-flash": "gemini-2.5-flash",
		"gemini-lite":  "gemini-2.5-flash-lite",
		"gemini-pro":   "gemini-2.5-pro",
	},
}

func modelFor(provider, name string) string {
	if id, ok := modelAliases[provider][name]; ok {
		return id
	}
	return name
}

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Complete call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // OpenAI-compatible endpoint override
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // default https://openrouter.ai/api/v1
}

// DefaultConfig returns a Config with the default model for each provider.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
		},
		Timeout: 30 * time.Second,
	}
}

// configFromLookup builds a Config from PATHWISE_* variables, falling back
// to defaults for unset values.
func configFromLookup(lookup func(string) (string, bool)) Config {
	cfg := DefaultConfig()
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&cfg.Provider, "PATHWISE_LLM_PROVIDER")
	set(&cfg.Anthropic.APIKey, "PATHWISE_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "PATHWISE_ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "PATHWISE_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "PATHWISE_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "PATHWISE_OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "PATHWISE_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "PATHWISE_GEMINI_MODEL")
	set(&cfg.OpenRouter.APIKey, "PATHWISE_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "PATHWISE_OPENROUTER_MODEL")

	if v, ok := lookup("PATHWISE_LLM_TIMEOUT"); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// discoverFromLookup probes the vendors' standard API key variables in
// priority order (Gemini, OpenAI, Anthropic, OpenRouter) and returns a
// Config for the first provider whose key is found.
func discoverFromLookup(lookup func(string) (string, bool)) (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k, ok := lookup(p.env); ok && k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig picks the explicit PATHWISE_* configuration when a provider
// is named, otherwise falls back to key discovery.
func ResolveConfig() (Config, error) {
	return resolveFromLookup(os.LookupEnv)
}

func resolveFromLookup(lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup("PATHWISE_LLM_PROVIDER"); ok && v != "" {
		cfg := configFromLookup(lookup)
		return cfg, cfg.Validate()
	}
	if cfg, ok := discoverFromLookup(lookup); ok {
		return cfg, nil
	}
	return Config{}, ErrNotConfigured
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	missing := func(env string) error {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return missing("PATHWISE_ANTHROPIC_API_KEY")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return missing("PATHWISE_OPENAI_API_KEY")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return missing("PATHWISE_GEMINI_API_KEY")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return missing("PATHWISE_OPENROUTER_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
