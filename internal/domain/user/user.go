package user

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/utils/idgen"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
	"github.com/janhq/arena-server/internal/utils/validation"
)

// User is an account that owns agents, roles, rooms and chat sessions.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterParams describes a new account.
type RegisterParams struct {
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Password       string `json:"password" validate:"required,min=6,max=128"`
	Email          string `json:"email" validate:"omitempty,email"`
	InvitationCode string `json:"invitation_code"`
}

// Repository exposes persistence for users.
type Repository interface {
	// Create fails with CONFLICT when the username is taken.
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Service manages accounts.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo           Repository
	hasher         PasswordHasher
	invitationCode string
	log            zerolog.Logger
}

// NewService wires the user service. A non-empty invitationCode gates registration.
func NewService(repo Repository, hasher PasswordHasher, invitationCode string, log zerolog.Logger) Service {
	return &service{
		repo:           repo,
		hasher:         hasher,
		invitationCode: invitationCode,
		log:            log.With().Str("component", "user-service").Logger(),
	}
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	params.Username = strings.TrimSpace(params.Username)
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}
	if s.invitationCode != "" && subtle.ConstantTimeCompare([]byte(params.InvitationCode), []byte(s.invitationCode)) != 1 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"invalid invitation code", nil)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "hash password")
	}
	id, err := idgen.GenerateSecureID(idgen.PrefixUser, 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate user id")
	}

	u := &User{
		ID:           id,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create user")
	}

	s.log.Info().Str("user_id", u.ID).Str("username", u.Username).Msg("user registered")
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, badCredentials(ctx)
		}
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, badCredentials(ctx)
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.Get(ctx, id)
}

func badCredentials(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
		"incorrect username or password", nil)
}
