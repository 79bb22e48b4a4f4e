package dbschema

import (
	"time"

	"github.com/janhq/arena-server/internal/domain/chat"
)

// ChatSession is a persisted one-to-one chat.
type ChatSession struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	OwnerID   string    `gorm:"type:varchar(64);not null;index:idx_chat_sessions_owner_id"`
	AgentID   string    `gorm:"type:varchar(64);not null"`
	RoleID    string    `gorm:"type:varchar(64)"`
	Title     string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

func NewSchemaChatSession(s *chat.Session) *ChatSession {
	return &ChatSession{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		AgentID:   s.AgentID,
		RoleID:    s.RoleID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (s *ChatSession) EtoD() *chat.Session {
	return &chat.Session{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		AgentID:   s.AgentID,
		RoleID:    s.RoleID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}
