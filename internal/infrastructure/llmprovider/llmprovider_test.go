package llmprovider_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/infrastructure/llmprovider"
)

func chatRequest(provider string) llm.Request {
	return llm.Request{
		Provider:    provider,
		Model:       "test-model",
		Temperature: 0.5,
		MaxTokens:   64,
		Messages: []llm.ChatMessage{
			{Role: llm.ChatRoleSystem, Content: "be brief"},
			{Role: llm.ChatRoleUser, Content: "hello"},
		},
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":"hi there"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":2}}`)
	}))
	defer server.Close()

	p := llmprovider.NewOpenAI(llmprovider.OpenAIConfig{Name: llm.ProviderOpenAI, APIKey: "server-key", BaseURL: server.URL + "/v1", Timeout: 5 * time.Second})

	resp, err := p.Generate(context.Background(), chatRequest(llm.ProviderOpenAI))
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 2, resp.CompletionTokens)
	assert.Equal(t, "Bearer server-key", gotAuth)

	req := chatRequest(llm.ProviderOpenAI)
	req.APIKey = "agent-key"
	_, err = p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Bearer agent-key", gotAuth)
}

func TestOpenAIClassifiesErrors(t *testing.T) {
	tests := []struct {
		status    int
		wantKind  llm.ErrorKind
		retryable bool
	}{
		{http.StatusUnauthorized, llm.ErrorKindAuth, false},
		{http.StatusNotFound, llm.ErrorKindInvalidRequest, false},
		{http.StatusTooManyRequests, llm.ErrorKindRateLimited, true},
		{http.StatusBadGateway, llm.ErrorKindUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error":{"message":"upstream says no","type":"error"}}`)
			}))
			defer server.Close()

			p := llmprovider.NewOpenAI(llmprovider.OpenAIConfig{Name: llm.ProviderDeepSeek, APIKey: "k", BaseURL: server.URL})
			_, err := p.Generate(context.Background(), chatRequest(llm.ProviderDeepSeek))
			require.Error(t, err)

			perr, ok := llm.AsProviderError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, perr.Kind)
			assert.Equal(t, tt.status, perr.StatusCode)
			assert.Equal(t, llm.ProviderDeepSeek, perr.Provider)
			assert.Equal(t, tt.retryable, llm.IsRetryable(err))
		})
	}
}

func TestOpenAIWithoutKeyIsAuthError(t *testing.T) {
	p := llmprovider.NewOpenAI(llmprovider.OpenAIConfig{Name: llm.ProviderOpenAI})
	_, err := p.Generate(context.Background(), chatRequest(llm.ProviderOpenAI))
	perr, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.True(t, perr.RoomWide())
}

func TestOllamaGenerateAndStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		var body struct {
			Stream bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if !body.Stream {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"model":"llama","message":{"role":"assistant","content":"whole reply"},"done":true,"done_reason":"stop","eval_count":3}`)
			return
		}
		for _, part := range []string{"par", "tial"} {
			fmt.Fprintf(w, `{"model":"llama","message":{"role":"assistant","content":%q},"done":false}`+"\n", part)
		}
		fmt.Fprint(w, `{"model":"llama","message":{"role":"assistant","content":""},"done":true,"done_reason":"stop"}`+"\n")
	}))
	defer server.Close()

	p := llmprovider.NewOllama(server.URL, 5*time.Second)

	resp, err := p.Generate(context.Background(), chatRequest(llm.ProviderOllama))
	require.NoError(t, err)
	assert.Equal(t, "whole reply", resp.Content)
	assert.Equal(t, 3, resp.CompletionTokens)

	var deltas []string
	resp, err = p.Stream(context.Background(), chatRequest(llm.ProviderOllama), func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"par", "tial"}, deltas)
	assert.Equal(t, "partial", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestOllamaServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := llmprovider.NewOllama(server.URL, time.Second).Generate(context.Background(), chatRequest(llm.ProviderOllama))
	perr, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ErrorKindUnavailable, perr.Kind)
}

type countingObserver struct{ outcomes []string }

func (o *countingObserver) ProviderRequest(_ string, outcome string, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}

func TestRouterDispatchesByProvider(t *testing.T) {
	obs := &countingObserver{}
	router := llmprovider.NewRouter(llmprovider.Config{}, obs, zerolog.Nop())

	resp, err := router.Generate(context.Background(), chatRequest(llm.ProviderMock))
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "hello")

	var streamed strings.Builder
	resp, err = router.Stream(context.Background(), chatRequest(llm.ProviderMock), func(d string) error {
		streamed.WriteString(d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, resp.Content, streamed.String())

	_, err = router.Generate(context.Background(), chatRequest("anthropic"))
	perr, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ErrorKindInvalidRequest, perr.Kind)

	assert.Equal(t, []string{"success", "success"}, obs.outcomes)
}
