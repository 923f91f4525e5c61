package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drxyu/cerebras-code-scanner/internal/provider"
)

func TestComplete(t *testing.T) {
	var gotReq apiRequest
	var gotAuth, gotExtra string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotExtra = r.Header.Get("X-Custom-Header")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Write([]byte(`{"choices":[{"message":{"content":"hello from model"}}]}`))
	}))
	defer server.Close()

	p := New(server.URL, "sk-test", map[string]string{"X-Custom-Header": "custom-value"})
	out, err := p.Complete(context.Background(), provider.CompletionRequest{
		Model:  "llama-3.3-70b",
		System: "system text",
		Prompt: "user text",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello from model", out)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "custom-value", gotExtra)
	assert.Equal(t, "llama-3.3-70b", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "user text", gotReq.Messages[1].Content)
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	p := New(server.URL, "bad-key", nil)
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	p := New(server.URL, "k", nil)
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestCompleteMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	p := New(server.URL, "k", nil)
	_, err := p.Complete(context.Background(), provider.CompletionRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing response")
}
