package llmprovider

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/janhq/arena-server/internal/domain/llm"
)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error"`
}

// Ollama calls a local Ollama server through its /api/chat endpoint.
type Ollama struct {
	http *resty.Client
}

var _ llm.StreamGenerator = (*Ollama)(nil)

func NewOllama(baseURL string, timeout time.Duration) *Ollama {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Ollama{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetTimeout(timeout),
	}
}

func (o *Ollama) body(req llm.Request, stream bool) ollamaChatRequest {
	messages := make([]ollamaMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}
	return ollamaChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   stream,
		Options:  ollamaOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens},
	}
}

func (o *Ollama) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	var result ollamaChatResponse
	resp, err := o.http.R().
		SetContext(ctx).
		SetBody(o.body(req, false)).
		SetResult(&result).
		Post("/api/chat")
	if err != nil {
		return llm.Response{}, classify(llm.ProviderOllama, err)
	}
	if resp.IsError() {
		return llm.Response{}, statusError(llm.ProviderOllama, resp.StatusCode(), resp.String())
	}
	if result.Error != "" {
		return llm.Response{}, &llm.ProviderError{Kind: llm.ErrorKindInvalidRequest, Provider: llm.ProviderOllama, Message: result.Error}
	}

	return llm.Response{
		Content:          result.Message.Content,
		Model:            result.Model,
		FinishReason:     result.DoneReason,
		PromptTokens:     result.PromptEvalCount,
		CompletionTokens: result.EvalCount,
	}, nil
}

// Stream reads the newline delimited JSON chunks Ollama emits when streaming.
func (o *Ollama) Stream(ctx context.Context, req llm.Request, onDelta func(string) error) (llm.Response, error) {
	resp, err := o.http.R().
		SetContext(ctx).
		SetBody(o.body(req, true)).
		SetDoNotParseResponse(true).
		Post("/api/chat")
	if err != nil {
		return llm.Response{}, classify(llm.ProviderOllama, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= 400 {
		return llm.Response{}, statusError(llm.ProviderOllama, resp.StatusCode(), "")
	}

	var (
		content strings.Builder
		out     llm.Response
	)
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var chunk ollamaChatResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return llm.Response{}, &llm.ProviderError{Kind: llm.ErrorKindTransient, Provider: llm.ProviderOllama, Message: fmt.Sprintf("malformed chunk: %v", err), Err: err}
		}
		if chunk.Error != "" {
			return llm.Response{}, &llm.ProviderError{Kind: llm.ErrorKindInvalidRequest, Provider: llm.ProviderOllama, Message: chunk.Error}
		}
		if delta := chunk.Message.Content; delta != "" {
			content.WriteString(delta)
			if err := onDelta(delta); err != nil {
				return llm.Response{}, err
			}
		}
		if chunk.Done {
			out.Model = chunk.Model
			out.FinishReason = chunk.DoneReason
			out.PromptTokens = chunk.PromptEvalCount
			out.CompletionTokens = chunk.EvalCount
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return llm.Response{}, classify(llm.ProviderOllama, err)
	}

	out.Content = content.String()
	return out, nil
}
