package dbschema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/janhq/arena-server/internal/domain/room"
)

// Room is the persisted room. RoleIDs is an ordered JSON array of role ids.
type Room struct {
	ID               string         `gorm:"type:varchar(64);primaryKey"`
	OwnerID          string         `gorm:"type:varchar(64);not null;index:idx_rooms_owner_id"`
	Name             string         `gorm:"type:varchar(200);not null"`
	Topic            string         `gorm:"type:text;not null"`
	Mode             string         `gorm:"type:varchar(20);not null;default:'debate'"`
	MaxRounds        int            `gorm:"not null;default:20"`
	CurrentRounds    int            `gorm:"not null;default:0"`
	Status           string         `gorm:"type:varchar(20);not null;default:'idle';index:idx_rooms_status"`
	RoleIDs          datatypes.JSON `gorm:"not null"`
	CurrentSessionID *string        `gorm:"type:varchar(64)"`
	LastError        string         `gorm:"type:text"`
	CreatedAt        time.Time      `gorm:"not null"`
	UpdatedAt        time.Time      `gorm:"not null"`
}

func (Room) TableName() string {
	return "rooms"
}

func NewSchemaRoom(r *room.Room) (*Room, error) {
	ids := r.RoleIDs
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	return &Room{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		Name:             r.Name,
		Topic:            r.Topic,
		Mode:             string(r.Mode),
		MaxRounds:        r.MaxRounds,
		CurrentRounds:    r.CurrentRounds,
		Status:           string(r.Status),
		RoleIDs:          datatypes.JSON(raw),
		CurrentSessionID: r.CurrentSessionID,
		LastError:        r.LastError,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}, nil
}

func (r *Room) EtoD() (*room.Room, error) {
	ids, err := r.RoleIDList()
	if err != nil {
		return nil, err
	}
	return &room.Room{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		Name:             r.Name,
		Topic:            r.Topic,
		Mode:             room.Mode(r.Mode),
		MaxRounds:        r.MaxRounds,
		CurrentRounds:    r.CurrentRounds,
		Status:           room.Status(r.Status),
		RoleIDs:          ids,
		CurrentSessionID: r.CurrentSessionID,
		LastError:        r.LastError,
		CreatedAt:        r.CreatedAt.UTC(),
		UpdatedAt:        r.UpdatedAt.UTC(),
	}, nil
}

// RoleIDList decodes the participant list.
func (r *Room) RoleIDList() ([]string, error) {
	ids := []string{}
	if len(r.RoleIDs) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(r.RoleIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
