// Package llmprovider implements llm.StreamGenerator for the supported providers.
package llmprovider

import (
	"context"
	"errors"
	"net"

	"github.com/sashabaranov/go-openai"

	"github.com/janhq/arena-server/internal/domain/llm"
)

// classify turns a transport or upstream error into an *llm.ProviderError.
// Cancellation is returned unchanged so callers can tell it apart.
func classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if _, ok := llm.AsProviderError(err); ok {
		return err
	}

	perr := &llm.ProviderError{Kind: llm.ErrorKindTransient, Provider: provider, Message: err.Error(), Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr):
		perr.StatusCode = apiErr.HTTPStatusCode
		perr.Kind = llm.KindFromStatus(apiErr.HTTPStatusCode)
		perr.Message = apiErr.Message
	case errors.As(err, &reqErr):
		perr.StatusCode = reqErr.HTTPStatusCode
		perr.Kind = llm.KindFromStatus(reqErr.HTTPStatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		perr.Message = "request timed out"
	case errors.As(err, &netErr):
		perr.Kind = llm.ErrorKindUnavailable
	}
	return perr
}

func statusError(provider string, status int, body string) error {
	if body == "" {
		body = "unexpected status"
	}
	return &llm.ProviderError{Kind: llm.KindFromStatus(status), Provider: provider, StatusCode: status, Message: body}
}
