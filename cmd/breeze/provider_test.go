package main

import (
	"context"
	"testing"

	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/anthropic"
	"github.com/fwojciec/breeze/config"
	"github.com/fwojciec/breeze/gemini"
	"github.com/fwojciec/breeze/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProvider_OpenAI(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), &config.Orchestrator{
		Provider:     config.ProviderOpenAI,
		OpenAIAPIKey: "sk-test",
		BaseURL:      "https://api.deepseek.com/v1",
		Model:        "deepseek-chat",
	})
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, p)
}

func TestResolveProvider_Anthropic(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), &config.Orchestrator{
		Provider:        config.ProviderAnthropic,
		AnthropicAPIKey: "sk-ant",
	})
	require.NoError(t, err)
	assert.IsType(t, &anthropic.Client{}, p)
}

func TestResolveProvider_Gemini(t *testing.T) {
	t.Parallel()
	p, err := resolveProvider(context.Background(), &config.Orchestrator{
		Provider:     config.ProviderGemini,
		GeminiAPIKey: "gk-test",
		Model:        "gemini-2.5-pro",
	})
	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, p)
}

func TestResolveProvider_UnknownProvider(t *testing.T) {
	t.Parallel()
	_, err := resolveProvider(context.Background(), &config.Orchestrator{Provider: "ollama"})
	require.Error(t, err)
	assert.ErrorIs(t, err, breeze.ErrConfiguration)
	assert.Contains(t, err.Error(), "unknown provider")
}
