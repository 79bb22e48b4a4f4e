package llmprovider

import (
	"context"
	"fmt"
	"strings"

	"github.com/janhq/arena-server/internal/domain/llm"
)

// Mock answers without any network call. It lets rooms run in development
// and tests with agents whose provider is "mock".
type Mock struct{}

var _ llm.StreamGenerator = Mock{}

func (Mock) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return llm.Response{}, err
	}
	return llm.Response{Content: mockReply(req), Model: req.Model, FinishReason: "stop"}, nil
}

func (m Mock) Stream(ctx context.Context, req llm.Request, onDelta func(string) error) (llm.Response, error) {
	resp, err := m.Generate(ctx, req)
	if err != nil {
		return llm.Response{}, err
	}
	words := strings.SplitAfter(resp.Content, " ")
	for _, w := range words {
		if err := onDelta(w); err != nil {
			return llm.Response{}, err
		}
	}
	return resp, nil
}

func mockReply(req llm.Request) string {
	last := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == llm.ChatRoleUser {
			last = req.Messages[i].Content
			break
		}
	}
	if runes := []rune(last); len(runes) > 80 {
		last = string(runes[:80]) + "..."
	}
	if last == "" {
		return fmt.Sprintf("(%s) I have nothing to add yet.", req.Model)
	}
	return fmt.Sprintf("(%s) Responding to %q.", req.Model, last)
}
