package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"appforge-backend/internal/ai"
)

func TestAnthropicProvider_Complete(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"ok\":true}"}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	provider := ai.NewAnthropicProvider(server.URL, "test-key", "claude-test")
	text, err := provider.Complete(context.Background(), ai.Request{
		System:    "system prompt",
		Messages:  []ai.Message{{Role: ai.RoleUser, Content: "hello"}},
		MaxTokens: 2000,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, "claude-test", captured["model"])
	assert.Equal(t, float64(2000), captured["max_tokens"])
	assert.Equal(t, "system prompt", captured["system"])
	_, hasTemperature := captured["temperature"]
	assert.False(t, hasTemperature)
}

func TestAnthropicProvider_NonTextBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"type":"tool_use"}]}`))
	}))
	defer server.Close()

	provider := ai.NewAnthropicProvider(server.URL, "k", "m")
	_, err := provider.Complete(context.Background(), ai.Request{MaxTokens: 10})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response format")
}

func TestAnthropicProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	provider := ai.NewAnthropicProvider(server.URL, "k", "m")
	_, err := provider.Complete(context.Background(), ai.Request{MaxTokens: 10})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
