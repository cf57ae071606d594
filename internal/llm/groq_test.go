package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroqClient(t *testing.T) {
	client := NewGroqClient(GroqConfig{APIKey: "key"})

	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.tracer)
	assert.NotNil(t, client.breaker)
	assert.Equal(t, DefaultGroqBaseURL, client.baseURL)
	assert.Equal(t, DefaultGroqModel, client.model)
}

func TestGroqClient_Complete(t *testing.T) {
	tests := []struct {
		name           string
		params         Params
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedError  string
		expectedResult string
	}{
		{
			name:   "successful_completion",
			params: Params{Temperature: 0.8, MaxTokens: 2000},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

				var req chatRequest
				err := json.NewDecoder(r.Body).Decode(&req)
				assert.NoError(t, err)
				assert.Equal(t, DefaultGroqModel, req.Model)
				assert.Equal(t, 0.8, req.Temperature)
				assert.Equal(t, 2000, req.MaxTokens)
				require.Len(t, req.Messages, 2)
				assert.Equal(t, RoleSystem, req.Messages[0].Role)
				assert.Equal(t, "Generate titles", req.Messages[1].Content)

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[\"Verify A\"]"}}]}`))
			},
			expectedResult: `["Verify A"]`,
		},
		{
			name:   "model_override",
			params: Params{Model: "llama-3.1-8b-instant"},
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				var req chatRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "llama-3.1-8b-instant", req.Model)
				w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
			},
			expectedResult: "ok",
		},
		{
			name: "server_error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"message":"rate limited"}}`))
			},
			expectedError: "groq returned status 429",
		},
		{
			name: "invalid_json_response",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("invalid json"))
			},
			expectedError: "failed to decode response",
		},
		{
			name: "no_choices",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices":[]}`))
			},
			expectedError: "no choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := NewGroqClient(GroqConfig{APIKey: "test-key"})
			client.SetBaseURL(server.URL + "/")

			result, err := client.Complete(context.Background(), SystemAndUser("You are a QA engineer", "Generate titles"), tt.params)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedResult, result)
			}
		})
	}
}

func TestGroqClient_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewGroqClient(GroqConfig{})
	client.SetBaseURL(server.URL)

	for i := 0; i < 10; i++ {
		_, err := client.Complete(context.Background(), SystemAndUser("s", "u"), Params{})
		assert.Error(t, err)
	}

	// the breaker trips after more than five consecutive failures
	assert.Equal(t, int32(6), calls.Load())
}

func TestDisabled_Complete(t *testing.T) {
	_, err := Disabled{}.Complete(context.Background(), nil, Params{})
	assert.ErrorIs(t, err, ErrDisabled)
}
