package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{Model: "gpt-4o-mini"})
	assert.Error(t, err)
}

func TestOpenAIClientChatCompletion(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"ok\"}"}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Timeout: time.Second, System: "be brief", JSONMode: true})
	require.NoError(t, err)

	out, err := c.ChatCompletion(context.Background(), "gpt-4o-mini", "hello", 0)
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ok"}`, out)
	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.Equal(t, float64(1024), got["max_tokens"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
	msgs := got["messages"].([]any)
	assert.Equal(t, "be brief", msgs[0].(map[string]any)["content"])
}

func TestOpenAIClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.ChatCompletion(context.Background(), "m", "p", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai http 429")
}

func TestOpenAIClientMissingChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.ChatCompletion(context.Background(), "m", "p", 10)
	assert.EqualError(t, err, "openai response missing choices")
}

func TestMockLLMClientRecordsCalls(t *testing.T) {
	m := &MockLLMClient{Response: "hi"}
	out, err := m.ChatCompletion(context.Background(), "m", "prompt", 5)
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, 1, m.Calls)
	assert.Equal(t, "prompt", m.LastPrompt)
}
