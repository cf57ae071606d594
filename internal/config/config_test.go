package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/llm"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range keys {
		t.Setenv(env, "")
	}
	t.Setenv(FileEnv, "")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, llm.ProviderGroq, cfg.LLMProvider)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, llm.DefaultGroqBaseURL, cfg.GroqBaseURL)
	assert.Equal(t, 25, cfg.RateLimitPerMinute)
	assert.Equal(t, 14000, cfg.RateLimitPerDay)
	assert.Equal(t, 500*time.Millisecond, cfg.CategoryPause)
	assert.Equal(t, "lenient", cfg.ParserStrategy)
	assert.False(t, cfg.SinglePass)
	assert.Empty(t, cfg.ConfigFileInUse)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("CATEGORY_PAUSE", "250")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("PARSER_STRATEGY", "balanced")
	t.Setenv("COMPREHENSIVE_SINGLE_PASS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, llm.ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, 250*time.Millisecond, cfg.CategoryPause)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.SinglePass)

	p := cfg.Provider()
	assert.Equal(t, llm.DefaultGeminiModel, p.Model)
	assert.Equal(t, "g-key", p.GeminiAPIKey)

	g := cfg.Generation()
	assert.True(t, g.SinglePass)
	assert.Equal(t, 250*time.Millisecond, g.CategoryPause)
	assert.Equal(t, generation.DefaultConfig().TitleParams, g.TitleParams)

	assert.Equal(t, generation.Balanced, cfg.Parser().Strategy)
	assert.Equal(t, 5, cfg.Limiter().Status().MinuteLimit)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "testcasegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7070"
llm:
  model: llama-3.1-8b-instant
  groq_api_key: from-file
rate_limit:
  per_day: 100
generation:
  category_pause: 2s
`), 0o600))
	t.Setenv(FileEnv, path)
	t.Setenv("RATE_LIMIT_PER_DAY", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Provider().Model)
	assert.Equal(t, "from-file", cfg.GroqAPIKey)
	assert.Equal(t, 200, cfg.RateLimitPerDay, "environment wins over the file")
	assert.Equal(t, 2*time.Second, cfg.CategoryPause)
	assert.Equal(t, path, cfg.ConfigFileInUse)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		env     string
		value   string
		wantErr string
	}{
		{"PORT", "http", "invalid PORT"},
		{"LLM_PROVIDER", "openai", "invalid LLM_PROVIDER"},
		{"PARSER_STRATEGY", "strict", "invalid PARSER_STRATEGY"},
		{"LLM_TIMEOUT", "soon", "invalid LLM_TIMEOUT"},
		{"LLM_TIMEOUT", "0s", "invalid LLM_TIMEOUT"},
		{"CATEGORY_PAUSE", "-1s", "invalid CATEGORY_PAUSE"},
		{"RATE_LIMIT_PER_MINUTE", "many", "invalid RATE_LIMIT_PER_MINUTE"},
		{"RATE_LIMIT_PER_DAY", "0", "invalid RATE_LIMIT_PER_DAY"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
