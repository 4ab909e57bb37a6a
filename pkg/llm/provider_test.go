package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProviderCall(t *testing.T) {
	var body map[string]interface{}
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		auth = r.Header.Get("Authorization")
		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(data, &body))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama3-70b",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "SELECT 1"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("LL-test-key", server.URL)
	assert.Equal(t, ProviderOpenAI, provider.Provider())

	resp, err := provider.Call(context.Background(), Request{
		Model:        "llama3-70b",
		SystemPrompt: "You are a database reading bot.",
		Prompt:       "write a query",
		MaxTokens:    64,
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT 1", resp.Content)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 3, resp.Usage.OutputTokens)
	assert.Equal(t, "Bearer LL-test-key", auth)
	assert.Equal(t, "llama3-70b", body["model"])

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]interface{})
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "You are a database reading bot.", system["content"])
	msg := messages[1].(map[string]interface{})
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "write a query", msg["content"])
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "x", "object": "chat.completion", "model": "m", "choices": []}`)
	}))
	defer server.Close()

	_, err := NewOpenAIProvider("key", server.URL).Call(context.Background(), Request{Model: "m", Prompt: "p"})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAIProviderAuthFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`)
	}))
	defer server.Close()

	_, err := NewOpenAIProvider("bad", server.URL).Call(context.Background(), Request{Model: "m", Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "transport failures are not retried")
}

func TestAnthropicProviderCall(t *testing.T) {
	var body map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(data, &body))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4",
			"content": [{"type": "text", "text": "The average is "}, {"type": "text", "text": "42."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 20, "output_tokens": 5}
		}`)
	}))
	defer server.Close()

	provider := NewAnthropicProvider("sk-ant-test", server.URL)
	assert.Equal(t, ProviderAnthropic, provider.Provider())

	resp, err := provider.Call(context.Background(), Request{
		Model:        "claude-sonnet-4",
		SystemPrompt: "You are a database reading bot.",
		Prompt:       "answer",
	})
	require.NoError(t, err)

	assert.Equal(t, "The average is 42.", resp.Content)
	assert.Equal(t, 20, resp.Usage.InputTokens)
	assert.Equal(t, float64(defaultAnthropicMaxTokens), body["max_tokens"])

	system, ok := body["system"].([]interface{})
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Equal(t, "You are a database reading bot.", system[0].(map[string]interface{})["text"])

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]interface{})["role"])
}
