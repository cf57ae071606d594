package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTestTimeout = 5 * time.Second

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ProviderConfig
		wantType Completer
		wantErr  bool
	}{
		{name: "groq_default", cfg: ProviderConfig{GroqAPIKey: "k"}, wantType: &GroqClient{}},
		{name: "groq_without_key", cfg: ProviderConfig{Provider: "groq"}, wantType: Disabled{}},
		{name: "gemini_without_key", cfg: ProviderConfig{Provider: "Gemini"}, wantType: Disabled{}},
		{name: "unknown_provider", cfg: ProviderConfig{Provider: "mystery"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer, err := New(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, completer)
		})
	}
}
