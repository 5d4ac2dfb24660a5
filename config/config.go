// Package config loads process configuration for the gateway and the
// orchestrator from the environment, after reading an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/fwojciec/breeze"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Gateway configures the Tool Gateway server.
type Gateway struct {
	Addr string `envconfig:"GATEWAY_ADDR" default:"127.0.0.1:9000"`

	OpenWeatherAPIKey  string        `envconfig:"OPENWEATHER_API_KEY" required:"true"`
	OpenWeatherBaseURL string        `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5"`
	Lang               string        `envconfig:"WEATHER_LANG" default:"zh_cn"`
	UpstreamTimeout    time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"30s"`

	// Optional read-through cache. Disabled when RedisURL is empty.
	RedisURL string        `envconfig:"REDIS_URL" default:""`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"*"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool     `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool     `envconfig:"METRICS_ENABLED" default:"true"`
}

// Provider names accepted in Orchestrator.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Orchestrator configures the chat client.
type Orchestrator struct {
	Provider string `envconfig:"PROVIDER" default:"openai"`
	Model    string `envconfig:"MODEL" default:""`

	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY" default:""`
	BaseURL         string `envconfig:"BASE_URL" default:""`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY" default:""`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY" default:""`

	GatewayURL        string        `envconfig:"GATEWAY_URL" default:"http://127.0.0.1:9000"`
	ToolTimeout       time.Duration `envconfig:"TOOL_TIMEOUT" default:"30s"`
	CompletionTimeout time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"60s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"true"`
}

// APIKey returns the credential for the selected provider.
func (c Orchestrator) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// LoadGateway reads the gateway configuration. A missing .env file is not
// an error; a missing API key is.
func LoadGateway() (*Gateway, error) {
	_ = godotenv.Load()
	return processGateway()
}

// LoadOrchestrator reads the orchestrator configuration and checks that the
// selected provider has credentials.
func LoadOrchestrator() (*Orchestrator, error) {
	_ = godotenv.Load()
	return processOrchestrator()
}

func processGateway() (*Gateway, error) {
	var cfg Gateway
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %v: %w", err, breeze.ErrConfiguration)
	}
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("config: OPENWEATHER_API_KEY is required: %w", breeze.ErrConfiguration)
	}
	if cfg.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("config: UPSTREAM_TIMEOUT must be positive: %w", breeze.ErrConfiguration)
	}
	return &cfg, nil
}

func processOrchestrator() (*Orchestrator, error) {
	var cfg Orchestrator
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %v: %w", err, breeze.ErrConfiguration)
	}
	switch cfg.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return nil, fmt.Errorf("config: unknown provider %q (use openai, anthropic or gemini): %w", cfg.Provider, breeze.ErrConfiguration)
	}
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("config: no API key set for provider %s: %w", cfg.Provider, breeze.ErrConfiguration)
	}
	if cfg.ToolTimeout <= 0 || cfg.CompletionTimeout <= 0 {
		return nil, fmt.Errorf("config: timeouts must be positive: %w", breeze.ErrConfiguration)
	}
	return &cfg, nil
}
