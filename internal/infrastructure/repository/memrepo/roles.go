package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/role"
)

// RoleRepository stores roles in memory.
type RoleRepository struct {
	mu    sync.RWMutex
	roles map[string]*role.Role
}

var (
	_ role.Repository   = (*RoleRepository)(nil)
	_ agent.RoleCounter = (*RoleRepository)(nil)
)

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{roles: make(map[string]*role.Role)}
}

func (r *RoleRepository) Create(_ context.Context, rl *role.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[rl.ID] = rl.Clone()
	return nil
}

func (r *RoleRepository) Get(ctx context.Context, id string) (*role.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rl, ok := r.roles[id]
	if !ok {
		return nil, access.NotFound(ctx, "role", id)
	}
	return rl.Clone(), nil
}

func (r *RoleRepository) GetMany(ctx context.Context, ids []string) ([]*role.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*role.Role, 0, len(ids))
	for _, id := range ids {
		rl, ok := r.roles[id]
		if !ok {
			return nil, access.NotFound(ctx, "role", id)
		}
		out = append(out, rl.Clone())
	}
	return out, nil
}

func (r *RoleRepository) List(_ context.Context, ownerID string) ([]*role.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*role.Role, 0)
	for _, rl := range r.roles {
		if rl.OwnerID == ownerID {
			out = append(out, rl.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RoleRepository) Update(ctx context.Context, rl *role.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[rl.ID]; !ok {
		return access.NotFound(ctx, "role", rl.ID)
	}
	r.roles[rl.ID] = rl.Clone()
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return access.NotFound(ctx, "role", id)
	}
	delete(r.roles, id)
	return nil
}

func (r *RoleRepository) CountByAgent(_ context.Context, agentID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, rl := range r.roles {
		if rl.AgentID == agentID {
			n++
		}
	}
	return n, nil
}
