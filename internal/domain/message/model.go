package message

import (
	"context"
	"time"

	"github.com/janhq/arena-server/internal/domain/realtime"
)

// Kind is the conversational role of a message.
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
	KindSystem    Kind = "system"
)

// SenderType tags which Sender fields are meaningful.
type SenderType string

const (
	SenderRole   SenderType = "role"
	SenderAgent  SenderType = "agent"
	SenderUser   SenderType = "user"
	SenderSystem SenderType = "system"
)

// Sender identifies who authored a message.
type Sender struct {
	Type    SenderType `json:"sender_type"`
	RoleID  string     `json:"role_id,omitempty"`
	AgentID string     `json:"agent_id,omitempty"`
	UserID  string     `json:"user_id,omitempty"`
}

// FromRole is a message spoken by a role through its agent.
func FromRole(roleID, agentID string) Sender {
	return Sender{Type: SenderRole, RoleID: roleID, AgentID: agentID}
}

// FromAgent is a message produced by an agent with no persona.
func FromAgent(agentID string) Sender {
	return Sender{Type: SenderAgent, AgentID: agentID}
}

// FromUser is a message typed by a human.
func FromUser(userID string) Sender {
	return Sender{Type: SenderUser, UserID: userID}
}

// System is a message produced by the service itself.
func System() Sender {
	return Sender{Type: SenderSystem}
}

// Message is one entry of a session transcript. ID is strictly increasing and
// gap free within SessionID.
type Message struct {
	ID        int64  `json:"id"`
	SessionID string `json:"session_id"`
	RoomID    string `json:"room_id,omitempty"`
	Sender
	SenderName string    `json:"sender_name"`
	Kind       Kind      `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Clone returns a copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}

// Envelope wraps m for realtime delivery.
func (m *Message) Envelope() realtime.Envelope {
	return realtime.Envelope{Type: realtime.TypeMessage, Data: m.Clone()}
}

// MaxContentLength bounds a single message.
const MaxContentLength = 32000

// AppendParams describes a message to add to a session.
type AppendParams struct {
	SessionID  string `validate:"required"`
	Sender     Sender
	SenderName string `validate:"max=200"`
	Kind       Kind   `validate:"required,oneof=user assistant system"`
	Content    string `validate:"required,max=32000"`
}

// Page selects a window of a transcript.
type Page struct {
	AfterID int64
	Limit   int
}

// Page limits.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// Normalize clamps the page to supported bounds.
func (p Page) Normalize() Page {
	if p.AfterID < 0 {
		p.AfterID = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// FetchResult is a window of a session transcript.
type FetchResult struct {
	SessionID string     `json:"session_id,omitempty"`
	Messages  []*Message `json:"messages"`
	HasMore   bool       `json:"has_more"`
}

// Repository exposes persistence for messages.
type Repository interface {
	// Append assigns m.ID as the next sequence number of m.SessionID and stores m.
	Append(ctx context.Context, m *Message) error
	// List returns messages with ID > afterID in ascending order.
	List(ctx context.Context, sessionID string, afterID int64, limit int) ([]*Message, error)
	// Recent returns the last n messages in ascending order.
	Recent(ctx context.Context, sessionID string, n int) ([]*Message, error)
	DeleteBySession(ctx context.Context, sessionID string) error
	DeleteByRoom(ctx context.Context, roomID string) error
}
