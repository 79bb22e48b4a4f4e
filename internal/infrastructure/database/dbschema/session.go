package dbschema

import (
	"time"

	"github.com/janhq/arena-server/internal/domain/session"
)

// Session is a persisted room session. The migration adds a partial unique
// index so a room has at most one open session.
type Session struct {
	ID                string    `gorm:"type:varchar(64);primaryKey"`
	RoomID            string    `gorm:"type:varchar(64);not null;index:idx_room_sessions_room_id"`
	Status            string    `gorm:"type:varchar(20);not null;default:'open'"`
	TurnCursor        int       `gorm:"not null;default:0"`
	LastSpeakerRoleID string    `gorm:"type:varchar(64)"`
	StartedAt         time.Time `gorm:"not null"`
	ClosedAt          *time.Time
}

func (Session) TableName() string {
	return "room_sessions"
}

func NewSchemaSession(s *session.Session) *Session {
	return &Session{
		ID:                s.ID,
		RoomID:            s.RoomID,
		Status:            string(s.Status),
		TurnCursor:        s.TurnCursor,
		LastSpeakerRoleID: s.LastSpeakerRoleID,
		StartedAt:         s.StartedAt,
		ClosedAt:          s.ClosedAt,
	}
}

func (s *Session) EtoD() *session.Session {
	out := &session.Session{
		ID:                s.ID,
		RoomID:            s.RoomID,
		Status:            session.Status(s.Status),
		TurnCursor:        s.TurnCursor,
		LastSpeakerRoleID: s.LastSpeakerRoleID,
		StartedAt:         s.StartedAt.UTC(),
	}
	if s.ClosedAt != nil {
		closed := s.ClosedAt.UTC()
		out.ClosedAt = &closed
	}
	return out
}
