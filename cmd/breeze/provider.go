package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/anthropic"
	"github.com/fwojciec/breeze/config"
	"github.com/fwojciec/breeze/gemini"
	"github.com/fwojciec/breeze/openai"
)

// resolveProvider constructs the provider named in cfg. Configuration has
// already checked that the provider has a key.
func resolveProvider(ctx context.Context, cfg *config.Orchestrator) (breeze.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		var opts []openai.Option
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		return openai.New(cfg.OpenAIAPIKey, opts...), nil
	case config.ProviderAnthropic:
		var opts []anthropic.Option
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.New(cfg.AnthropicAPIKey, opts...), nil
	case config.ProviderGemini:
		var opts []gemini.Option
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: %w", cfg.Provider, breeze.ErrConfiguration)
	}
}
