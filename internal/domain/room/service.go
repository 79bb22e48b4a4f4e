package room

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/utils/functional"
	"github.com/janhq/arena-server/internal/utils/idgen"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
	"github.com/janhq/arena-server/internal/utils/validation"
)

// Service is the Room Store.
type Service interface {
	Create(ctx context.Context, ownerID string, params CreateParams) (*Room, error)
	Get(ctx context.Context, id string) (*Room, error)
	GetForUser(ctx context.Context, userID, id string) (*Room, error)
	List(ctx context.Context, ownerID string) ([]*Room, error)
	Update(ctx context.Context, userID, id string, params UpdateParams) (*Room, error)
	Delete(ctx context.Context, userID, id string) error
}

// Dependencies groups the collaborators of the Room Store.
type Dependencies struct {
	Repo      Repository
	Roles     role.Service
	Locker    Locker
	Halter    Halter
	Publisher realtime.Publisher
	// Purgers run in order on delete, children first.
	Purgers []Purger
}

type service struct {
	deps Dependencies
	log  zerolog.Logger
}

// NewService wires the Room Store.
func NewService(deps Dependencies, log zerolog.Logger) Service {
	return &service{
		deps: deps,
		log:  log.With().Str("component", "room-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, ownerID string, params CreateParams) (*Room, error) {
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}
	if err := s.checkRoles(ctx, ownerID, params.RoleIDs); err != nil {
		return nil, err
	}

	mode := params.Mode
	if mode == "" {
		mode = ModeDebate
	}
	maxRounds := DefaultMaxRounds
	if params.MaxRounds != nil {
		maxRounds = *params.MaxRounds
	}

	id, err := idgen.GenerateSecureID(idgen.PrefixRoom, 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate room id")
	}

	now := time.Now().UTC()
	r := &Room{
		ID:        id,
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(params.Name),
		Topic:     strings.TrimSpace(params.Topic),
		Mode:      mode,
		MaxRounds: maxRounds,
		Status:    StatusIdle,
		RoleIDs:   append([]string{}, params.RoleIDs...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.Repo.Create(ctx, r); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create room")
	}

	s.log.Info().Str("room_id", r.ID).Str("mode", string(r.Mode)).Int("roles", len(r.RoleIDs)).Msg("room created")
	return r, nil
}

func (s *service) Get(ctx context.Context, id string) (*Room, error) {
	return s.deps.Repo.Get(ctx, id)
}

func (s *service) GetForUser(ctx context.Context, userID, id string) (*Room, error) {
	r, err := s.deps.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(ctx, "room", id, r.OwnerID, userID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]*Room, error) {
	return s.deps.Repo.List(ctx, ownerID)
}

func (s *service) Update(ctx context.Context, userID, id string, params UpdateParams) (*Room, error) {
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}

	unlock, err := s.deps.Locker.Lock(ctx, LockKey(id))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lock room")
	}
	defer unlock()

	r, err := s.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusRunning {
		return nil, conflict(ctx, r, "room cannot be edited while running; stop it first")
	}

	if params.RoleIDs != nil {
		if r.HasOpenSession() {
			return nil, conflict(ctx, r, "participants cannot change while a session is open; finish or restart the room first")
		}
		if err := s.checkRoles(ctx, userID, *params.RoleIDs); err != nil {
			return nil, err
		}
		r.RoleIDs = append([]string{}, (*params.RoleIDs)...)
	}
	if params.Name != nil {
		r.Name = strings.TrimSpace(*params.Name)
	}
	if params.Topic != nil {
		r.Topic = strings.TrimSpace(*params.Topic)
	}
	if params.Mode != nil {
		r.Mode = *params.Mode
	}
	if params.MaxRounds != nil {
		if r.HasOpenSession() && *params.MaxRounds < r.CurrentRounds {
			return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"max_rounds cannot be lower than the rounds already played in the open session", nil,
				map[string]any{"room_id": r.ID, "current_rounds": r.CurrentRounds, "max_rounds": *params.MaxRounds})
		}
		r.MaxRounds = *params.MaxRounds
	}
	r.UpdatedAt = time.Now().UTC()

	if err := s.deps.Repo.Update(ctx, r); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update room")
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	unlock, err := s.deps.Locker.Lock(ctx, LockKey(id))
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lock room")
	}
	defer unlock()

	if _, err := s.GetForUser(ctx, userID, id); err != nil {
		return err
	}

	// Appends and joins take the same lock, so nothing lands between the halt and the purge.
	s.deps.Halter.Halt(id)

	for _, purger := range s.deps.Purgers {
		if err := purger.DeleteByRoom(ctx, id); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "purge room data")
		}
	}
	if err := s.deps.Repo.Delete(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete room")
	}

	s.deps.Publisher.CloseRoom(ctx, id)
	s.log.Info().Str("room_id", id).Msg("room deleted")
	return nil
}

func (s *service) checkRoles(ctx context.Context, userID string, roleIDs []string) error {
	if functional.HasDuplicates(roleIDs) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"role_ids must not contain duplicates", nil)
	}
	for _, roleID := range roleIDs {
		if _, err := s.deps.Roles.GetForUser(ctx, userID, roleID); err != nil {
			if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
				return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
					"unknown role "+roleID, err, map[string]any{"role_id": roleID})
			}
			return err
		}
	}
	return nil
}

func conflict(ctx context.Context, r *Room, message string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
		message, nil, map[string]any{"room_id": r.ID, "status": string(r.Status)})
}
