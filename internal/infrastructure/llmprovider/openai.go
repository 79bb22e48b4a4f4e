package llmprovider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/janhq/arena-server/internal/domain/llm"
)

// OpenAIConfig configures an OpenAI compatible endpoint. DeepSeek uses the same client with its own base URL.
type OpenAIConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// OpenAI talks to OpenAI compatible chat completion APIs. An agent's own API
// key takes precedence over the configured one.
type OpenAI struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

var _ llm.StreamGenerator = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAI{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

func (o *OpenAI) client(apiKey string) (*openai.Client, error) {
	if apiKey == "" {
		apiKey = o.cfg.APIKey
	}
	if apiKey == "" {
		return nil, &llm.ProviderError{Kind: llm.ErrorKindAuth, Provider: o.cfg.Name, Message: "no API key configured"}
	}
	config := openai.DefaultConfig(apiKey)
	if o.cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(o.cfg.BaseURL, "/")
	}
	config.HTTPClient = o.httpClient
	return openai.NewClientWithConfig(config), nil
}

func (o *OpenAI) request(req llm.Request, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(m.Role), Name: m.Name, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
}

func (o *OpenAI) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	client, err := o.client(req.APIKey)
	if err != nil {
		return llm.Response{}, err
	}

	resp, err := client.CreateChatCompletion(ctx, o.request(req, false))
	if err != nil {
		return llm.Response{}, classify(o.cfg.Name, err)
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, &llm.ProviderError{Kind: llm.ErrorKindTransient, Provider: o.cfg.Name, Message: "response has no choices"}
	}

	return llm.Response{
		Content:          resp.Choices[0].Message.Content,
		Model:            resp.Model,
		FinishReason:     string(resp.Choices[0].FinishReason),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (o *OpenAI) Stream(ctx context.Context, req llm.Request, onDelta func(string) error) (llm.Response, error) {
	client, err := o.client(req.APIKey)
	if err != nil {
		return llm.Response{}, err
	}

	stream, err := client.CreateChatCompletionStream(ctx, o.request(req, true))
	if err != nil {
		return llm.Response{}, classify(o.cfg.Name, err)
	}
	defer stream.Close()

	var (
		content strings.Builder
		out     llm.Response
	)
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return llm.Response{}, classify(o.cfg.Name, err)
		}
		if out.Model == "" {
			out.Model = chunk.Model
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			out.FinishReason = string(choice.FinishReason)
		}
		if choice.Delta.Content == "" {
			continue
		}
		content.WriteString(choice.Delta.Content)
		if err := onDelta(choice.Delta.Content); err != nil {
			return llm.Response{}, err
		}
	}

	out.Content = content.String()
	return out, nil
}
