package role

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// DefaultAggressiveness is the speaking weight given to roles created without one.
const DefaultAggressiveness = 0.5

// Role is a persona bound to an agent.
type Role struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	AgentID        string    `json:"agent_id"`
	Name           string    `json:"name"`
	Gender         string    `json:"gender,omitempty"`
	Age            int       `json:"age,omitempty"`
	Profession     string    `json:"profession,omitempty"`
	Personality    string    `json:"personality,omitempty"`
	Aggressiveness float64   `json:"aggressiveness"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Clone returns a copy of the role.
func (r *Role) Clone() *Role {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// PersonaPrompt renders the persona block appended to the agent system prompt.
func (r *Role) PersonaPrompt() string {
	lines := []string{"Name: " + r.Name}
	if r.Gender != "" {
		lines = append(lines, "Gender: "+r.Gender)
	}
	if r.Age > 0 {
		lines = append(lines, "Age: "+strconv.Itoa(r.Age))
	}
	if r.Profession != "" {
		lines = append(lines, "Profession: "+r.Profession)
	}
	if r.Personality != "" {
		lines = append(lines, "Personality: "+r.Personality)
	}
	return "Role Persona:\n" + strings.Join(lines, "\n")
}

// CreateParams describes a new role.
type CreateParams struct {
	AgentID        string   `json:"agent_id" validate:"required"`
	Name           string   `json:"name" validate:"required,max=100"`
	Gender         string   `json:"gender" validate:"max=32"`
	Age            int      `json:"age" validate:"gte=0,lte=200"`
	Profession     string   `json:"profession" validate:"max=100"`
	Personality    string   `json:"personality" validate:"max=2000"`
	Aggressiveness *float64 `json:"aggressiveness" validate:"omitempty,gte=0,lte=1"`
}

// UpdateParams carries a partial role update.
type UpdateParams struct {
	AgentID        *string  `json:"agent_id" validate:"omitempty,min=1"`
	Name           *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Gender         *string  `json:"gender" validate:"omitempty,max=32"`
	Age            *int     `json:"age" validate:"omitempty,gte=0,lte=200"`
	Profession     *string  `json:"profession" validate:"omitempty,max=100"`
	Personality    *string  `json:"personality" validate:"omitempty,max=2000"`
	Aggressiveness *float64 `json:"aggressiveness" validate:"omitempty,gte=0,lte=1"`
}

// Repository exposes persistence for roles.
type Repository interface {
	Create(ctx context.Context, r *Role) error
	Get(ctx context.Context, id string) (*Role, error)
	// GetMany returns the roles in the order of ids, or NOT_FOUND if any is missing.
	GetMany(ctx context.Context, ids []string) ([]*Role, error)
	List(ctx context.Context, ownerID string) ([]*Role, error)
	Update(ctx context.Context, r *Role) error
	Delete(ctx context.Context, id string) error
	CountByAgent(ctx context.Context, agentID string) (int64, error)
}

// RoomCounter reports how many rooms list a role as participant.
type RoomCounter interface {
	CountRoomsWithRole(ctx context.Context, roleID string) (int64, error)
}

// ComposeSystemPrompt appends the persona of r, when present, to an agent's base prompt.
func ComposeSystemPrompt(base string, r *Role) string {
	base = strings.TrimSpace(base)
	if r == nil {
		return base
	}
	if base == "" {
		return r.PersonaPrompt()
	}
	return base + "\n\n" + r.PersonaPrompt()
}
