package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/pathwise/internal/store"
)

// New builds the configured provider wrapped as
// timeout → retry → record → vendor. A nil repo skips recording.
func New(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropic(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAI(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouter(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGemini(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return Chain(base,
		Timeout(cfg.Timeout),
		Retry(cfg.Retry, logger),
		Record(cfg.Provider, repo, logger),
	), nil
}

// NewFromEnv resolves configuration from the environment and builds the
// provider. It returns ErrNotConfigured when nothing is set.
func NewFromEnv(ctx context.Context, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, repo, logger)
}
