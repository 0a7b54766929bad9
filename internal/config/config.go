// Package config provides environment-driven configuration for the API server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the server.
// Values come from environment variables; missing optional values use defaults.
type Config struct {
	Port        int
	DatabaseURL string

	// LLM provider selection and credentials.
	LLMProvider     string // "anthropic" (default) or "gemini"
	AnthropicAPIKey string
	GeminiAPIKey    string
	LLMModel        string // optional model override
	LLMTimeoutSecs  int    // per-call timeout; a slow model is treated as a failure

	// Token verification for the external identity provider.
	JWTSecret string

	// Payment processor integration.
	CheckoutSecretKey string // API key for creating checkout sessions
	WebhookSecret     string // shared secret for webhook signature verification
	PremiumPriceID    string
	UltimatePriceID   string

	// Interview engine knobs. Defaults follow the canonical ten-question flow;
	// the legacy lighter-weight mode is reachable by lowering MaxTurns and
	// disabling strict exclusion.
	InterviewMaxTurns        int
	InterviewStrictExclusion bool
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                     8080,
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		LLMProvider:              getenvDefault("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey:          os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		LLMModel:                 os.Getenv("LLM_MODEL"),
		LLMTimeoutSecs:           30,
		JWTSecret:                os.Getenv("JWT_SECRET"),
		CheckoutSecretKey:        os.Getenv("CHECKOUT_SECRET_KEY"),
		WebhookSecret:            os.Getenv("WEBHOOK_SECRET"),
		PremiumPriceID:           os.Getenv("PREMIUM_PRICE_ID"),
		UltimatePriceID:          os.Getenv("ULTIMATE_PRICE_ID"),
		InterviewMaxTurns:        10,
		InterviewStrictExclusion: true,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("LLM_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_TIMEOUT_SECONDS %q: %w", v, err)
		}
		cfg.LLMTimeoutSecs = secs
	}
	if v := os.Getenv("INTERVIEW_MAX_TURNS"); v != "" {
		turns, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid INTERVIEW_MAX_TURNS %q: %w", v, err)
		}
		cfg.InterviewMaxTurns = turns
	}
	if v := os.Getenv("INTERVIEW_STRICT_EXCLUSION"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid INTERVIEW_STRICT_EXCLUSION %q: %w", v, err)
		}
		cfg.InterviewStrictExclusion = strict
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config error: JWT_SECRET is required")
	}
	switch c.LLMProvider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("config error: ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("config error: unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.InterviewMaxTurns < 1 {
		return fmt.Errorf("config error: INTERVIEW_MAX_TURNS must be positive")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT must be between 1 and 65535")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
