package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// ProviderConfig selects and configures a completion provider.
type ProviderConfig struct {
	Provider     string
	Model        string
	Timeout      time.Duration
	GroqAPIKey   string
	GroqBaseURL  string
	GeminiAPIKey string
}

// New builds the configured Completer. A provider without an API key yields
// Disabled, so the service still answers with fallback test cases.
func New(ctx context.Context, cfg ProviderConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGroq:
		if cfg.GroqAPIKey == "" {
			log.Printf(`{"level":"warn","message":"GROQ_API_KEY not set, serving fallback test cases only"}`)
			return Disabled{}, nil
		}
		return NewGroqClient(GroqConfig{
			APIKey:  cfg.GroqAPIKey,
			BaseURL: cfg.GroqBaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			log.Printf(`{"level":"warn","message":"GEMINI_API_KEY not set, serving fallback test cases only"}`)
			return Disabled{}, nil
		}
		client, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
