// Package cache decorates repositories with in-process caches.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"github.com/janhq/arena-server/internal/domain/agent"
)

// AgentRepository caches agent lookups, which the orchestrator performs on
// every turn. Writes go through to the wrapped repository and evict the entry.
type AgentRepository struct {
	next  agent.Repository
	cache *lru.Cache
}

var _ agent.Repository = (*AgentRepository)(nil)

func NewAgentRepository(next agent.Repository, size int) (*AgentRepository, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &AgentRepository{next: next, cache: c}, nil
}

func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	return r.next.Create(ctx, a)
}

func (r *AgentRepository) Get(ctx context.Context, id string) (*agent.Agent, error) {
	if v, ok := r.cache.Get(id); ok {
		return v.(*agent.Agent).Clone(), nil
	}
	a, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, a.Clone())
	return a, nil
}

func (r *AgentRepository) List(ctx context.Context, ownerID string) ([]*agent.Agent, error) {
	return r.next.List(ctx, ownerID)
}

func (r *AgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	r.cache.Remove(a.ID)
	return r.next.Update(ctx, a)
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	r.cache.Remove(id)
	return r.next.Delete(ctx, id)
}
