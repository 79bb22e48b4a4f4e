package role

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/utils/idgen"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
	"github.com/janhq/arena-server/internal/utils/validation"
)

// Service manages roles.
type Service interface {
	Create(ctx context.Context, ownerID string, params CreateParams) (*Role, error)
	Get(ctx context.Context, id string) (*Role, error)
	GetForUser(ctx context.Context, userID, id string) (*Role, error)
	List(ctx context.Context, ownerID string) ([]*Role, error)
	Update(ctx context.Context, userID, id string, params UpdateParams) (*Role, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo   Repository
	agents agent.Service
	rooms  RoomCounter
	log    zerolog.Logger
}

// NewService wires the role service.
func NewService(repo Repository, agents agent.Service, rooms RoomCounter, log zerolog.Logger) Service {
	return &service{
		repo:   repo,
		agents: agents,
		rooms:  rooms,
		log:    log.With().Str("component", "role-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, ownerID string, params CreateParams) (*Role, error) {
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}
	if _, err := s.agents.GetForUser(ctx, ownerID, params.AgentID); err != nil {
		return nil, err
	}

	aggressiveness := DefaultAggressiveness
	if params.Aggressiveness != nil {
		aggressiveness = *params.Aggressiveness
	}

	id, err := idgen.GenerateSecureID(idgen.PrefixRole, 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate role id")
	}

	now := time.Now().UTC()
	r := &Role{
		ID:             id,
		OwnerID:        ownerID,
		AgentID:        params.AgentID,
		Name:           strings.TrimSpace(params.Name),
		Gender:         params.Gender,
		Age:            params.Age,
		Profession:     params.Profession,
		Personality:    params.Personality,
		Aggressiveness: aggressiveness,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create role")
	}

	s.log.Info().Str("role_id", r.ID).Str("agent_id", r.AgentID).Msg("role created")
	return r, nil
}

func (s *service) Get(ctx context.Context, id string) (*Role, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) GetForUser(ctx context.Context, userID, id string) (*Role, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(ctx, "role", id, r.OwnerID, userID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]*Role, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *service) Update(ctx context.Context, userID, id string, params UpdateParams) (*Role, error) {
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}

	r, err := s.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.AgentID != nil && *params.AgentID != r.AgentID {
		if _, err := s.agents.GetForUser(ctx, userID, *params.AgentID); err != nil {
			return nil, err
		}
		r.AgentID = *params.AgentID
	}
	if params.Name != nil {
		r.Name = strings.TrimSpace(*params.Name)
	}
	if params.Gender != nil {
		r.Gender = *params.Gender
	}
	if params.Age != nil {
		r.Age = *params.Age
	}
	if params.Profession != nil {
		r.Profession = *params.Profession
	}
	if params.Personality != nil {
		r.Personality = *params.Personality
	}
	if params.Aggressiveness != nil {
		r.Aggressiveness = *params.Aggressiveness
	}
	r.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update role")
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.GetForUser(ctx, userID, id); err != nil {
		return err
	}

	refs, err := s.rooms.CountRoomsWithRole(ctx, id)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count rooms for role")
	}
	if refs > 0 {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("role participates in %d room(s); remove it from them first", refs), nil,
			map[string]any{"role_id": id, "room_count": refs})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete role")
	}
	s.log.Info().Str("role_id", id).Msg("role deleted")
	return nil
}
