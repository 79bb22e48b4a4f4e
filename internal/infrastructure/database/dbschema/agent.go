// Package dbschema holds the GORM models of the arena tables.
package dbschema

import (
	"time"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{}, Agent{}, Role{}, Room{}, Session{}, ChatSession{}, Message{})
}

// Agent is the persisted agent. APIKey holds the sealed key.
type Agent struct {
	ID           string    `gorm:"type:varchar(64);primaryKey"`
	OwnerID      string    `gorm:"type:varchar(64);not null;index:idx_agents_owner_id"`
	Name         string    `gorm:"type:varchar(100);not null"`
	AvatarURL    string    `gorm:"type:varchar(512)"`
	Provider     string    `gorm:"type:varchar(32);not null"`
	ModelName    string    `gorm:"type:varchar(100);not null"`
	SystemPrompt string    `gorm:"type:text;not null;default:''"`
	APIKey       string    `gorm:"type:text"`
	Temperature  float64   `gorm:"not null;default:0.7"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (Agent) TableName() string {
	return "agents"
}

// NewSchemaAgent converts a domain agent.
func NewSchemaAgent(a *agent.Agent) *Agent {
	return &Agent{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		Name:         a.Name,
		AvatarURL:    a.AvatarURL,
		Provider:     a.Provider,
		ModelName:    a.ModelName,
		SystemPrompt: a.SystemPrompt,
		APIKey:       a.APIKey,
		Temperature:  a.Temperature,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// EtoD converts the row back to the domain agent.
func (a *Agent) EtoD() *agent.Agent {
	return &agent.Agent{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		Name:         a.Name,
		AvatarURL:    a.AvatarURL,
		Provider:     a.Provider,
		ModelName:    a.ModelName,
		SystemPrompt: a.SystemPrompt,
		APIKey:       a.APIKey,
		Temperature:  a.Temperature,
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	}
}
