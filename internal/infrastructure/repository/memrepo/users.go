package memrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// UserRepository stores accounts in memory. Usernames are unique ignoring case.
type UserRepository struct {
	mu         sync.RWMutex
	users      map[string]user.User
	byUsername map[string]string
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]user.User), byUsername: make(map[string]string)}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Username)
	if _, taken := r.byUsername[key]; taken {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"username is already taken", nil, map[string]any{"username": u.Username})
	}
	r.users[u.ID] = *u
	r.byUsername[key] = u.ID
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, access.NotFound(ctx, "user", id)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, access.NotFound(ctx, "user", username)
	}
	u := r.users[id]
	return &u, nil
}
