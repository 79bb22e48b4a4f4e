// Package llm describes the text generation capability agents are backed by.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider names accepted on agents.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderOllama   = "ollama"
	ProviderMock     = "mock"
)

// Providers lists every supported provider.
var Providers = []string{ProviderOpenAI, ProviderDeepSeek, ProviderOllama, ProviderMock}

// ChatRole is the role of a message inside a provider request.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of the conversation sent to a provider.
type ChatMessage struct {
	Role    ChatRole
	Name    string
	Content string
}

// Request is a provider-agnostic chat completion request.
type Request struct {
	Provider    string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Messages    []ChatMessage
}

// Response is the result of a completion.
type Response struct {
	Content          string
	Model            string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

// Generator produces a completion for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// StreamGenerator delivers a completion incrementally through onDelta.
type StreamGenerator interface {
	Generator
	Stream(ctx context.Context, req Request, onDelta func(delta string) error) (Response, error)
}

// ErrorKind classifies provider failures.
type ErrorKind string

const (
	ErrorKindTransient      ErrorKind = "transient"
	ErrorKindRateLimited    ErrorKind = "rate_limited"
	ErrorKindUnavailable    ErrorKind = "unavailable"
	ErrorKindAuth           ErrorKind = "auth"
	ErrorKindInvalidRequest ErrorKind = "invalid_request"
)

// ProviderError is returned by generators when the upstream call fails.
type ProviderError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s provider error (%s, status %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s provider error (%s): %s", e.Provider, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the same request may succeed.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case ErrorKindTransient, ErrorKindRateLimited, ErrorKindUnavailable:
		return true
	default:
		return false
	}
}

// RoomWide reports whether the failure will repeat for every turn of the agent,
// such as a rejected API key or an unknown model.
func (e *ProviderError) RoomWide() bool {
	return e.Kind == ErrorKindAuth || e.Kind == ErrorKindInvalidRequest
}

// KindFromStatus maps an upstream HTTP status to an ErrorKind.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return ErrorKindAuth
	case status == 429:
		return ErrorKindRateLimited
	case status == 400 || status == 404 || status == 422:
		return ErrorKindInvalidRequest
	case status >= 500:
		return ErrorKindUnavailable
	default:
		return ErrorKindTransient
	}
}

// IsRetryable reports whether err may clear on retry. Unknown errors are retried,
// context cancellation never is.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Retryable()
	}
	return true
}

// AsProviderError extracts a ProviderError from err.
func AsProviderError(err error) (*ProviderError, bool) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
