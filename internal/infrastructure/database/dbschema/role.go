package dbschema

import (
	"time"

	"github.com/janhq/arena-server/internal/domain/role"
)

// Role is the persisted role.
type Role struct {
	ID             string    `gorm:"type:varchar(64);primaryKey"`
	OwnerID        string    `gorm:"type:varchar(64);not null;index:idx_roles_owner_id"`
	AgentID        string    `gorm:"type:varchar(64);not null;index:idx_roles_agent_id"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Gender         string    `gorm:"type:varchar(32)"`
	Age            int       `gorm:"not null;default:0"`
	Profession     string    `gorm:"type:varchar(100)"`
	Personality    string    `gorm:"type:text"`
	Aggressiveness float64   `gorm:"not null;default:0.5"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (Role) TableName() string {
	return "roles"
}

func NewSchemaRole(r *role.Role) *Role {
	return &Role{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		AgentID:        r.AgentID,
		Name:           r.Name,
		Gender:         r.Gender,
		Age:            r.Age,
		Profession:     r.Profession,
		Personality:    r.Personality,
		Aggressiveness: r.Aggressiveness,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r *Role) EtoD() *role.Role {
	return &role.Role{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		AgentID:        r.AgentID,
		Name:           r.Name,
		Gender:         r.Gender,
		Age:            r.Age,
		Profession:     r.Profession,
		Personality:    r.Personality,
		Aggressiveness: r.Aggressiveness,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}
