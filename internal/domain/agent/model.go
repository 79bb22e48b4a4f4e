package agent

import (
	"context"
	"time"
)

// DefaultTemperature is applied when an agent is created without one.
const DefaultTemperature = 0.7

// Agent is an LLM-backed persona template.
type Agent struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Provider     string    `json:"provider"`
	ModelName    string    `json:"model_name"`
	SystemPrompt string    `json:"system_prompt"`
	APIKey       string    `json:"-"`
	Temperature  float64   `json:"temperature"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAPIKey reports whether the agent carries its own provider credential.
func (a *Agent) HasAPIKey() bool {
	return a.APIKey != ""
}

// Clone returns a copy so callers never share repository state.
func (a *Agent) Clone() *Agent {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

// CreateParams describes a new agent.
type CreateParams struct {
	Name         string   `json:"name" validate:"required,max=100"`
	AvatarURL    string   `json:"avatar_url" validate:"omitempty,max=512"`
	Provider     string   `json:"provider" validate:"required,oneof=openai deepseek ollama mock"`
	ModelName    string   `json:"model_name" validate:"required,max=100"`
	SystemPrompt string   `json:"system_prompt" validate:"max=8000"`
	APIKey       string   `json:"api_key" validate:"max=512"`
	Temperature  *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
}

// UpdateParams carries a partial agent update; nil fields are left untouched.
type UpdateParams struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=100"`
	AvatarURL    *string  `json:"avatar_url" validate:"omitempty,max=512"`
	Provider     *string  `json:"provider" validate:"omitempty,oneof=openai deepseek ollama mock"`
	ModelName    *string  `json:"model_name" validate:"omitempty,min=1,max=100"`
	SystemPrompt *string  `json:"system_prompt" validate:"omitempty,max=8000"`
	APIKey       *string  `json:"api_key" validate:"omitempty,max=512"`
	Temperature  *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
}

// Repository exposes persistence for agents.
type Repository interface {
	Create(ctx context.Context, a *Agent) error
	Get(ctx context.Context, id string) (*Agent, error)
	List(ctx context.Context, ownerID string) ([]*Agent, error)
	Update(ctx context.Context, a *Agent) error
	Delete(ctx context.Context, id string) error
}

// RoleCounter reports how many roles reference an agent.
type RoleCounter interface {
	CountByAgent(ctx context.Context, agentID string) (int64, error)
}
