// Package chat implements standalone one-to-one conversations with a single agent.
package chat

import (
	"context"
	"time"

	"github.com/janhq/arena-server/internal/domain/message"
)

// Session is a private conversation between a user and one agent, optionally in a role.
type Session struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	AgentID   string    `json:"agent_id"`
	RoleID    string    `json:"role_id,omitempty"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateParams describes a new chat session.
type CreateParams struct {
	AgentID string `json:"agent_id" validate:"required"`
	RoleID  string `json:"role_id"`
	Title   string `json:"title" validate:"max=200"`
}

// CompletionParams is one user turn.
type CompletionParams struct {
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id" validate:"required"`
	RoleID    string `json:"role_id"`
	Message   string `json:"message" validate:"required,max=32000"`
	Stream    bool   `json:"stream"`
}

// CompletionResult carries both sides of a completed turn.
type CompletionResult struct {
	SessionID   string           `json:"session_id"`
	UserMessage *message.Message `json:"user_message"`
	Reply       *message.Message `json:"reply"`
}

// Repository exposes persistence for chat sessions.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context, ownerID string) ([]*Session, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

const titleLength = 30

func titleFrom(text string) string {
	runes := []rune(text)
	if len(runes) <= titleLength {
		return text
	}
	return string(runes[:titleLength]) + "..."
}
