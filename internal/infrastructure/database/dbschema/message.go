package dbschema

import (
	"time"

	"github.com/janhq/arena-server/internal/domain/message"
)

// Message is one transcript row, keyed by (session_id, id). Room and chat
// sessions share the table; RoomID is empty for chat messages.
type Message struct {
	SessionID  string    `gorm:"type:varchar(64);primaryKey"`
	ID         int64     `gorm:"primaryKey;autoIncrement:false"`
	RoomID     string    `gorm:"type:varchar(64);index:idx_messages_room_id"`
	SenderType string    `gorm:"type:varchar(20);not null"`
	RoleID     string    `gorm:"type:varchar(64)"`
	AgentID    string    `gorm:"type:varchar(64)"`
	UserID     string    `gorm:"type:varchar(64)"`
	SenderName string    `gorm:"type:varchar(200);not null;default:''"`
	Kind       string    `gorm:"type:varchar(20);not null"`
	Content    string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (Message) TableName() string {
	return "messages"
}

func NewSchemaMessage(m *message.Message) *Message {
	return &Message{
		SessionID:  m.SessionID,
		ID:         m.ID,
		RoomID:     m.RoomID,
		SenderType: string(m.Sender.Type),
		RoleID:     m.Sender.RoleID,
		AgentID:    m.Sender.AgentID,
		UserID:     m.Sender.UserID,
		SenderName: m.SenderName,
		Kind:       string(m.Kind),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}

func (m *Message) EtoD() *message.Message {
	return &message.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		RoomID:    m.RoomID,
		Sender: message.Sender{
			Type:    message.SenderType(m.SenderType),
			RoleID:  m.RoleID,
			AgentID: m.AgentID,
			UserID:  m.UserID,
		},
		SenderName: m.SenderName,
		Kind:       message.Kind(m.Kind),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}
