package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:              8080,
		DatabaseURL:       "postgres://localhost/prephub",
		LLMProvider:       "anthropic",
		AnthropicAPIKey:   "sk-test",
		JWTSecret:         "secret",
		InterviewMaxTurns: 10,
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/prephub")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, 10, cfg.InterviewMaxTurns)
	assert.True(t, cfg.InterviewStrictExclusion)
	assert.Equal(t, 30, cfg.LLMTimeoutSecs)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("INTERVIEW_MAX_TURNS", "7")
	t.Setenv("INTERVIEW_STRICT_EXCLUSION", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 7, cfg.InterviewMaxTurns)
	assert.False(t, cfg.InterviewStrictExclusion)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "anthropic without key",
			mutate:  func(c *Config) { c.AnthropicAPIKey = "" },
			wantErr: "ANTHROPIC_API_KEY",
		},
		{
			name: "gemini without key",
			mutate: func(c *Config) {
				c.LLMProvider = "gemini"
				c.GeminiAPIKey = ""
			},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLMProvider = "openai" },
			wantErr: "unknown LLM_PROVIDER",
		},
		{
			name:    "non-positive max turns",
			mutate:  func(c *Config) { c.InterviewMaxTurns = 0 },
			wantErr: "INTERVIEW_MAX_TURNS",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "PORT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
