package oracle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailtriage/internal/config"
	"github.com/fyrsmithlabs/mailtriage/internal/logging"
	"github.com/fyrsmithlabs/mailtriage/internal/secrets"
	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

// New builds the configured oracle, wrapped in a rate limiter.
func New(ctx context.Context, cfg config.OracleConfig, logger *logging.Logger) (triage.Oracle, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var scrubber secrets.Scrubber = secrets.NoopScrubber{}
	if cfg.ScrubSecrets {
		s, err := secrets.New(secrets.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("building secret scrubber: %w", err)
		}
		scrubber = s
	}
	prompts := NewPromptBuilder(scrubber)

	var o triage.Oracle
	switch cfg.Provider {
	case "gemini":
		g, err := NewGemini(ctx, cfg.APIKey.Value(), cfg.Model, prompts)
		if err != nil {
			return nil, err
		}
		o = g
	case "openai":
		lc, err := NewOpenAI(OpenAIConfig{
			APIKey:  cfg.APIKey.Value(),
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}, prompts)
		if err != nil {
			return nil, err
		}
		o = lc
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}

	logger.Info(ctx, "classification oracle ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Bool("scrub_secrets", cfg.ScrubSecrets),
		zap.Float64("rate_limit", cfg.RateLimit),
	)
	return NewLimited(o, cfg.RateLimit, cfg.Burst), nil
}
