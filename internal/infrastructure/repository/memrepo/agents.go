// Package memrepo holds in-memory repositories used for DB_DRIVER=memory and domain tests.
// Every read returns a copy so callers never share stored state.
package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/agent"
)

// AgentRepository stores agents in memory.
type AgentRepository struct {
	mu     sync.RWMutex
	agents map[string]*agent.Agent
}

var _ agent.Repository = (*AgentRepository)(nil)

func NewAgentRepository() *AgentRepository {
	return &AgentRepository{agents: make(map[string]*agent.Agent)}
}

func (r *AgentRepository) Create(_ context.Context, a *agent.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID] = a.Clone()
	return nil
}

func (r *AgentRepository) Get(ctx context.Context, id string) (*agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	if !ok {
		return nil, access.NotFound(ctx, "agent", id)
	}
	return a.Clone(), nil
}

func (r *AgentRepository) List(_ context.Context, ownerID string) ([]*agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*agent.Agent, 0)
	for _, a := range r.agents {
		if a.OwnerID == ownerID {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *AgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[a.ID]; !ok {
		return access.NotFound(ctx, "agent", a.ID)
	}
	r.agents[a.ID] = a.Clone()
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[id]; !ok {
		return access.NotFound(ctx, "agent", id)
	}
	delete(r.agents, id)
	return nil
}
