package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/fwojciec/breeze"
	"github.com/fwojciec/breeze/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests in this file mutate the process environment and cannot run in parallel.

// clearEnv unsets keys for the duration of the test. t.Setenv registers
// the restore; envconfig only applies defaults to unset variables.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestProcessGateway_Defaults(t *testing.T) {
	clearEnv(t, "GATEWAY_ADDR", "OPENWEATHER_BASE_URL", "WEATHER_LANG", "UPSTREAM_TIMEOUT", "REDIS_URL", "CACHE_TTL", "CORS_ORIGINS", "LOG_LEVEL", "LOG_PRETTY", "METRICS_ENABLED")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")

	cfg, err := config.ProcessGateway()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "ow-key", cfg.OpenWeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.OpenWeatherBaseURL)
	assert.Equal(t, "zh_cn", cfg.Lang)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.MetricsEnabled)
}

func TestProcessGateway_MissingAPIKey(t *testing.T) {
	clearEnv(t, "OPENWEATHER_API_KEY", "GATEWAY_ADDR", "UPSTREAM_TIMEOUT", "CACHE_TTL")
	_, err := config.ProcessGateway()
	assert.ErrorIs(t, err, breeze.ErrConfiguration)

	t.Setenv("OPENWEATHER_API_KEY", "")
	_, err = config.ProcessGateway()
	assert.ErrorIs(t, err, breeze.ErrConfiguration)
}

func TestProcessGateway_Overrides(t *testing.T) {
	clearEnv(t, "CACHE_TTL", "LOG_PRETTY", "METRICS_ENABLED")
	t.Setenv("OPENWEATHER_API_KEY", "k")
	t.Setenv("GATEWAY_ADDR", ":8081")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := config.ProcessGateway()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
}

func TestProcessOrchestrator(t *testing.T) {
	t.Run("openai defaults", func(t *testing.T) {
		clearEnv(t, "PROVIDER", "MODEL", "BASE_URL", "GATEWAY_URL", "TOOL_TIMEOUT", "COMPLETION_TIMEOUT", "ANTHROPIC_API_KEY", "GEMINI_API_KEY")
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg, err := config.ProcessOrchestrator()
		require.NoError(t, err)
		assert.Equal(t, config.ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "sk-test", cfg.APIKey())
		assert.Equal(t, "http://127.0.0.1:9000", cfg.GatewayURL)
		assert.Equal(t, 30*time.Second, cfg.ToolTimeout)
	})

	t.Run("missing openai key", func(t *testing.T) {
		clearEnv(t, "PROVIDER", "OPENAI_API_KEY", "TOOL_TIMEOUT", "COMPLETION_TIMEOUT")
		_, err := config.ProcessOrchestrator()
		assert.ErrorIs(t, err, breeze.ErrConfiguration)
	})

	t.Run("gemini uses its own key", func(t *testing.T) {
		clearEnv(t, "OPENAI_API_KEY", "TOOL_TIMEOUT", "COMPLETION_TIMEOUT")
		t.Setenv("PROVIDER", "gemini")
		t.Setenv("GEMINI_API_KEY", "gk-test")
		cfg, err := config.ProcessOrchestrator()
		require.NoError(t, err)
		assert.Equal(t, "gk-test", cfg.APIKey())
	})

	t.Run("anthropic uses its own key", func(t *testing.T) {
		clearEnv(t, "TOOL_TIMEOUT", "COMPLETION_TIMEOUT")
		t.Setenv("PROVIDER", "anthropic")
		t.Setenv("ANTHROPIC_API_KEY", "ak-test")
		cfg, err := config.ProcessOrchestrator()
		require.NoError(t, err)
		assert.Equal(t, "ak-test", cfg.APIKey())
	})

	t.Run("unknown provider", func(t *testing.T) {
		clearEnv(t, "TOOL_TIMEOUT", "COMPLETION_TIMEOUT")
		t.Setenv("PROVIDER", "llama")
		_, err := config.ProcessOrchestrator()
		assert.ErrorIs(t, err, breeze.ErrConfiguration)
	})
}
