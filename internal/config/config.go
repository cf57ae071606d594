// Package config loads service settings from defaults, an optional YAML file
// and environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/llm"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/ratelimit"
)

// FileEnv names the environment variable holding the optional config file path.
const FileEnv = "TESTCASEGEN_CONFIG"

// Config is the resolved service configuration.
type Config struct {
	Port        string
	CORSOrigin  string
	DatabaseURL string

	LLMProvider  string
	LLMModel     string
	LLMTimeout   time.Duration
	GroqAPIKey   string
	GroqBaseURL  string
	GeminiAPIKey string
	GeminiModel  string

	RateLimitPerMinute int
	RateLimitPerDay    int

	CategoryPause   time.Duration
	ParserStrategy  string
	SinglePass      bool
	ConfigFileInUse string
}

// keys maps config file keys to their environment variables.
var keys = map[string]string{
	"port":                      "PORT",
	"cors_origin":               "CORS_ORIGIN",
	"database_url":              "DATABASE_URL",
	"llm.provider":              "LLM_PROVIDER",
	"llm.model":                 "LLM_MODEL",
	"llm.timeout":               "LLM_TIMEOUT",
	"llm.groq_api_key":          "GROQ_API_KEY",
	"llm.groq_base_url":         "GROQ_BASE_URL",
	"llm.gemini_api_key":        "GEMINI_API_KEY",
	"llm.gemini_model":          "GEMINI_MODEL",
	"rate_limit.per_minute":     "RATE_LIMIT_PER_MINUTE",
	"rate_limit.per_day":        "RATE_LIMIT_PER_DAY",
	"generation.category_pause": "CATEGORY_PAUSE",
	"generation.parser":         "PARSER_STRATEGY",
	"generation.single_pass":    "COMPREHENSIVE_SINGLE_PASS",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("cors_origin", "*")
	v.SetDefault("database_url", "")
	v.SetDefault("llm.provider", llm.ProviderGroq)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.groq_api_key", "")
	v.SetDefault("llm.groq_base_url", llm.DefaultGroqBaseURL)
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", llm.DefaultGeminiModel)
	v.SetDefault("rate_limit.per_minute", ratelimit.DefaultMaxPerMinute)
	v.SetDefault("rate_limit.per_day", ratelimit.DefaultMaxPerDay)
	v.SetDefault("generation.category_pause", "500ms")
	v.SetDefault("generation.parser", "lenient")
	v.SetDefault("generation.single_pass", false)
}

// Load resolves the configuration. The file named by TESTCASEGEN_CONFIG is
// read when set and must exist.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path := os.Getenv(FileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:            v.GetString("port"),
		CORSOrigin:      v.GetString("cors_origin"),
		DatabaseURL:     v.GetString("database_url"),
		LLMProvider:     strings.ToLower(v.GetString("llm.provider")),
		LLMModel:        v.GetString("llm.model"),
		GroqAPIKey:      v.GetString("llm.groq_api_key"),
		GroqBaseURL:     v.GetString("llm.groq_base_url"),
		GeminiAPIKey:    v.GetString("llm.gemini_api_key"),
		GeminiModel:     v.GetString("llm.gemini_model"),
		ParserStrategy:  strings.ToLower(v.GetString("generation.parser")),
		SinglePass:      v.GetBool("generation.single_pass"),
		ConfigFileInUse: v.ConfigFileUsed(),
	}

	var err error
	if cfg.LLMTimeout, err = duration(v, "llm.timeout"); err != nil {
		return nil, err
	}
	if cfg.CategoryPause, err = duration(v, "generation.category_pause"); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = integer(v, "rate_limit.per_minute"); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerDay, err = integer(v, "rate_limit.per_day"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// duration reads a Go duration string. Bare integers are taken as milliseconds.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (%s): %q is not a duration", keys[key], key, raw)
	}
	return d, nil
}

func integer(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (%s): %q is not an integer", keys[key], key, raw)
	}
	return n, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT: %q is not a number", c.Port)
	}
	switch c.LLMProvider {
	case llm.ProviderGroq, llm.ProviderGemini:
	default:
		return fmt.Errorf("invalid LLM_PROVIDER: %q (want groq or gemini)", c.LLMProvider)
	}
	switch c.ParserStrategy {
	case "lenient", "balanced":
	default:
		return fmt.Errorf("invalid PARSER_STRATEGY: %q (want lenient or balanced)", c.ParserStrategy)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("invalid LLM_TIMEOUT: must be positive")
	}
	if c.CategoryPause < 0 {
		return fmt.Errorf("invalid CATEGORY_PAUSE: must not be negative")
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: must be at least 1")
	}
	if c.RateLimitPerDay < 1 {
		return fmt.Errorf("invalid RATE_LIMIT_PER_DAY: must be at least 1")
	}
	return nil
}

// Provider returns the completion client settings.
func (c *Config) Provider() llm.ProviderConfig {
	model := c.LLMModel
	if model == "" && c.LLMProvider == llm.ProviderGemini {
		model = c.GeminiModel
	}
	return llm.ProviderConfig{
		Provider:     c.LLMProvider,
		Model:        model,
		Timeout:      c.LLMTimeout,
		GroqAPIKey:   c.GroqAPIKey,
		GroqBaseURL:  c.GroqBaseURL,
		GeminiAPIKey: c.GeminiAPIKey,
	}
}

// Generation returns the pipeline settings.
func (c *Config) Generation() generation.Config {
	g := generation.DefaultConfig()
	g.CategoryPause = c.CategoryPause
	g.SinglePass = c.SinglePass
	return g
}

// Parser returns the configured response parser.
func (c *Config) Parser() generation.Parser {
	return generation.NewParser(c.ParserStrategy)
}

// Limiter builds a rate limiter with the configured quotas.
func (c *Config) Limiter() *ratelimit.Limiter {
	return ratelimit.New(ratelimit.WithLimits(c.RateLimitPerMinute, c.RateLimitPerDay))
}
