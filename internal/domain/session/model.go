package session

import (
	"context"
	"time"

	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/room"
)

// Status of a session.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Session is one conversation run inside a room.
type Session struct {
	ID                string     `json:"id"`
	RoomID            string     `json:"room_id"`
	Status            Status     `json:"status"`
	TurnCursor        int        `json:"turn_cursor"`
	LastSpeakerRoleID string     `json:"last_speaker_role_id,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
}

// Clone returns a copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		cp.ClosedAt = &t
	}
	return &cp
}

// IsOpen reports whether the session still accepts messages.
func (s *Session) IsOpen() bool {
	return s.Status == StatusOpen
}

// Close marks the session closed at now.
func (s *Session) Close(now time.Time) {
	s.Status = StatusClosed
	s.ClosedAt = &now
}

// Repository exposes persistence for sessions.
type Repository interface {
	// Create fails with CONFLICT when the room already has an open session.
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	ListByRoom(ctx context.Context, roomID string) ([]*Session, error)
	DeleteByRoom(ctx context.Context, roomID string) error
}

// Runner drives generation for running rooms.
type Runner interface {
	room.Halter
	// Launch starts generating for roomID. It does not block; a previous loop of
	// the same room is allowed to exit before the new one produces anything.
	Launch(roomID string)
}

// StatusEvent is the payload of status envelopes.
type StatusEvent struct {
	RoomID        string      `json:"room_id"`
	Status        room.Status `json:"status"`
	SessionID     string      `json:"session_id,omitempty"`
	CurrentRounds int         `json:"current_rounds"`
	MaxRounds     int         `json:"max_rounds"`
	LastError     string      `json:"last_error,omitempty"`
}

// NewStatusEnvelope describes the current lifecycle state of r.
func NewStatusEnvelope(r *room.Room) realtime.Envelope {
	return realtime.Envelope{
		Type: realtime.TypeStatus,
		Data: StatusEvent{
			RoomID:        r.ID,
			Status:        r.Status,
			SessionID:     r.SessionID(),
			CurrentRounds: r.CurrentRounds,
			MaxRounds:     r.MaxRounds,
			LastError:     r.LastError,
		},
	}
}
