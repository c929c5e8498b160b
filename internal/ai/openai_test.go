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

func TestOpenAIProvider_Complete(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"a\":1}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	provider := ai.NewOpenAIProvider(server.URL+"/v1", "test-key", "gpt-test")
	text, err := provider.Complete(context.Background(), ai.Request{
		System:      "be helpful",
		Messages:    []ai.Message{{Role: ai.RoleUser, Content: "hi"}, {Role: ai.RoleAssistant, Content: "hello"}},
		MaxTokens:   2000,
		Temperature: ai.Temperature(0.5),
	})

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
	assert.Equal(t, "gpt-test", captured["model"])

	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 3)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "assistant", messages[2].(map[string]interface{})["role"])
	assert.InDelta(t, 0.5, captured["temperature"], 0.001)
}

func TestOpenAIProvider_NullContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":null},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	provider := ai.NewOpenAIProvider(server.URL+"/v1", "k", "m")
	text, err := provider.Complete(context.Background(), ai.Request{MaxTokens: 10})

	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestOpenAIProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	provider := ai.NewOpenAIProvider(server.URL+"/v1", "k", "m")
	_, err := provider.Complete(context.Background(), ai.Request{MaxTokens: 10})

	assert.Error(t, err)
}
