// Package provider builds the configured generation backend.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/offerdesk/internal/anthropic"
	"github.com/MikeSquared-Agency/offerdesk/internal/config"
	"github.com/MikeSquared-Agency/offerdesk/internal/gemini"
	"github.com/MikeSquared-Agency/offerdesk/internal/llm"
	"github.com/MikeSquared-Agency/offerdesk/internal/openai"
)

// StatsWindow is how far back latency percentiles look.
const StatsWindow = time.Hour

// New returns the backend named by cfg.Provider wrapped with latency
// stats. A missing credential is not an error here; the backend reports
// llm.ErrAuth on first use.
func New(ctx context.Context, cfg config.LLM) (*llm.Instrumented, error) {
	var gen llm.Generator
	switch cfg.Provider {
	case "", "anthropic":
		gen = anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "openai":
		gen = openai.NewClient(openai.Settings{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
	case "gemini":
		gen = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return llm.Instrument(gen, llm.NewStats(StatsWindow)), nil
}
