package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"eventscout/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "gpt-test"})
	require.NoError(t, err)
	c.retryDelay = time.Millisecond
	return c
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": content}}},
	})
}

func TestOpenAICompleteWithSystem(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		if !assert.Len(t, req.Messages, 2) {
			return
		}
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "You are the Writer.", req.Messages[0].Content)
		assert.Equal(t, "events here", req.Messages[1].Content)

		writeCompletion(w, "  # AI Events Newsletter  ")
	})

	out, err := c.CompleteWithSystem(context.Background(), "You are the Writer.", "events here")
	require.NoError(t, err)
	assert.Equal(t, "# AI Events Newsletter", out)
	assert.Equal(t, "openai:gpt-test", c.Name())
}

func TestOpenAIRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeCompletion(w, "ok")
	})

	out, err := c.CompleteWithSystem(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.CompleteWithSystem(context.Background(), "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(4), calls.Load())
}

func TestOpenAIClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	})

	_, err := c.CompleteWithSystem(context.Background(), "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIEmptyResponse(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.CompleteWithSystem(context.Background(), "", "hi")
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestNewClientFactory(t *testing.T) {
	cfg := config.DefaultConfig()
	_, err := NewClient(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrNotConfigured)

	cfg.LLM.APIKey = "k"
	c, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4-turbo", c.Name())

	cfg.LLM.Provider = "gemini"
	c, err = NewClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini:"+defaultGeminiModel, c.Name(), "openai model names are not sent to gemini")

	cfg.LLM.Provider = "carrier-pigeon"
	_, err = NewClient(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestTruncate(t *testing.T) {
	s, cut := Truncate("héllo world", 5)
	assert.True(t, cut)
	assert.True(t, strings.HasPrefix(s, "héllo"))
	assert.True(t, strings.HasSuffix(s, "[...truncated...]"))

	s, cut = Truncate("short", 10)
	assert.False(t, cut)
	assert.Equal(t, "short", s)

	s, cut = Truncate("unbounded", 0)
	assert.False(t, cut)
	assert.Equal(t, "unbounded", s)
}
