package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/utils/crypto"
	"github.com/janhq/arena-server/internal/utils/idgen"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
	"github.com/janhq/arena-server/internal/utils/validation"
)

const sealedPrefix = "enc:"

// Service manages agents.
type Service interface {
	Create(ctx context.Context, ownerID string, params CreateParams) (*Agent, error)
	// Get loads an agent without an ownership check, for internal callers.
	Get(ctx context.Context, id string) (*Agent, error)
	GetForUser(ctx context.Context, userID, id string) (*Agent, error)
	List(ctx context.Context, ownerID string) ([]*Agent, error)
	Update(ctx context.Context, userID, id string, params UpdateParams) (*Agent, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo   Repository
	roles  RoleCounter
	secret string
	log    zerolog.Logger
}

// NewService wires the agent service. When secret is non-empty API keys are sealed at rest.
func NewService(repo Repository, roles RoleCounter, secret string, log zerolog.Logger) Service {
	return &service{
		repo:   repo,
		roles:  roles,
		secret: secret,
		log:    log.With().Str("component", "agent-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, ownerID string, params CreateParams) (*Agent, error) {
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}

	temperature := DefaultTemperature
	if params.Temperature != nil {
		temperature = *params.Temperature
	}

	id, err := idgen.GenerateSecureID(idgen.PrefixAgent, 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate agent id")
	}

	now := time.Now().UTC()
	a := &Agent{
		ID:           id,
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(params.Name),
		AvatarURL:    params.AvatarURL,
		Provider:     params.Provider,
		ModelName:    params.ModelName,
		SystemPrompt: params.SystemPrompt,
		APIKey:       params.APIKey,
		Temperature:  temperature,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	sealed, err := s.seal(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sealed); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create agent")
	}

	s.log.Info().Str("agent_id", a.ID).Str("provider", a.Provider).Msg("agent created")
	return a, nil
}

func (s *service) Get(ctx context.Context, id string) (*Agent, error) {
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, stored)
}

func (s *service) GetForUser(ctx context.Context, userID, id string) (*Agent, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(ctx, "agent", id, a.OwnerID, userID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]*Agent, error) {
	stored, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	agents := make([]*Agent, 0, len(stored))
	for _, item := range stored {
		a, err := s.open(ctx, item)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}

func (s *service) Update(ctx context.Context, userID, id string, params UpdateParams) (*Agent, error) {
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}

	a, err := s.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		a.Name = strings.TrimSpace(*params.Name)
	}
	if params.AvatarURL != nil {
		a.AvatarURL = *params.AvatarURL
	}
	if params.Provider != nil {
		a.Provider = *params.Provider
	}
	if params.ModelName != nil {
		a.ModelName = *params.ModelName
	}
	if params.SystemPrompt != nil {
		a.SystemPrompt = *params.SystemPrompt
	}
	if params.APIKey != nil {
		a.APIKey = *params.APIKey
	}
	if params.Temperature != nil {
		a.Temperature = *params.Temperature
	}
	a.UpdatedAt = time.Now().UTC()

	sealed, err := s.seal(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sealed); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update agent")
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.GetForUser(ctx, userID, id); err != nil {
		return err
	}

	refs, err := s.roles.CountByAgent(ctx, id)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count roles for agent")
	}
	if refs > 0 {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			fmt.Sprintf("agent is used by %d role(s); delete or reassign them first", refs), nil,
			map[string]any{"agent_id": id, "role_count": refs})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete agent")
	}
	s.log.Info().Str("agent_id", id).Msg("agent deleted")
	return nil
}

func (s *service) seal(ctx context.Context, a *Agent) (*Agent, error) {
	cp := a.Clone()
	if s.secret == "" || cp.APIKey == "" {
		return cp, nil
	}
	sealed, err := crypto.EncryptString(s.secret, cp.APIKey)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "encrypt agent api key")
	}
	cp.APIKey = sealedPrefix + sealed
	return cp, nil
}

func (s *service) open(ctx context.Context, stored *Agent) (*Agent, error) {
	cp := stored.Clone()
	if !strings.HasPrefix(cp.APIKey, sealedPrefix) {
		return cp, nil
	}
	if s.secret == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"agent api key is encrypted but no encryption secret is configured", nil)
	}
	plain, err := crypto.DecryptString(s.secret, strings.TrimPrefix(cp.APIKey, sealedPrefix))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "decrypt agent api key")
	}
	cp.APIKey = plain
	return cp, nil
}
