package room

import (
	"context"
	"time"
)

// Status is the lifecycle state of a room.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusStopped  Status = "stopped"
	StatusFinished Status = "finished"
)

// ValidTransitions lists the status changes lifecycle operations may perform.
var ValidTransitions = map[Status][]Status{
	StatusIdle:     {StatusRunning, StatusFinished},
	StatusRunning:  {StatusRunning, StatusStopped, StatusFinished},
	StatusStopped:  {StatusRunning, StatusFinished},
	StatusFinished: {StatusRunning},
}

// CanTransitionTo reports whether moving from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range ValidTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Mode selects the speaker selection policy.
type Mode string

const (
	ModeDebate    Mode = "debate"
	ModeGroupChat Mode = "group_chat"
)

// Defaults applied on creation.
const (
	DefaultMaxRounds = 20
	MaxMaxRounds     = 1000
)

// Room is a multi-agent conversation space.
type Room struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Name             string    `json:"name"`
	Topic            string    `json:"topic"`
	Mode             Mode      `json:"mode"`
	MaxRounds        int       `json:"max_rounds"`
	CurrentRounds    int       `json:"current_rounds"`
	Status           Status    `json:"status"`
	RoleIDs          []string  `json:"role_ids"`
	CurrentSessionID *string   `json:"session_id"`
	LastError        string    `json:"last_error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the room.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	cp := *r
	cp.RoleIDs = append([]string(nil), r.RoleIDs...)
	if r.CurrentSessionID != nil {
		id := *r.CurrentSessionID
		cp.CurrentSessionID = &id
	}
	return &cp
}

// SessionID returns the current session id or "".
func (r *Room) SessionID() string {
	if r.CurrentSessionID == nil {
		return ""
	}
	return *r.CurrentSessionID
}

// HasOpenSession reports whether the room has a session that still accepts messages.
func (r *Room) HasOpenSession() bool {
	return r.CurrentSessionID != nil && (r.Status == StatusRunning || r.Status == StatusStopped)
}

// CreateParams describes a new room.
type CreateParams struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Topic     string   `json:"topic" validate:"required,max=4000"`
	Mode      Mode     `json:"mode" validate:"omitempty,oneof=debate group_chat"`
	MaxRounds *int     `json:"max_rounds" validate:"omitempty,min=1,max=1000"`
	RoleIDs   []string `json:"role_ids" validate:"omitempty,dive,required"`
}

// UpdateParams carries a partial room update.
type UpdateParams struct {
	Name      *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Topic     *string   `json:"topic" validate:"omitempty,min=1,max=4000"`
	Mode      *Mode     `json:"mode" validate:"omitempty,oneof=debate group_chat"`
	MaxRounds *int      `json:"max_rounds" validate:"omitempty,min=1,max=1000"`
	RoleIDs   *[]string `json:"role_ids" validate:"omitempty,dive,required"`
}

// Repository exposes persistence for rooms.
type Repository interface {
	Create(ctx context.Context, r *Room) error
	Get(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, ownerID string) ([]*Room, error)
	ListByStatus(ctx context.Context, status Status) ([]*Room, error)
	Update(ctx context.Context, r *Room) error
	Delete(ctx context.Context, id string) error
	CountRoomsWithRole(ctx context.Context, roleID string) (int64, error)
}

// Locker serializes mutations of one room across goroutines and, when distributed, instances.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// LockKey is the Locker key guarding room id.
func LockKey(id string) string {
	return "room:" + id
}

// Halter stops the generation loop of a room without waiting for it.
type Halter interface {
	Halt(roomID string)
}

// Purger removes data that belongs to a room.
type Purger interface {
	DeleteByRoom(ctx context.Context, roomID string) error
}
