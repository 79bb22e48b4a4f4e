package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/chat"
)

// ChatRepository stores standalone chat sessions in memory.
type ChatRepository struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
}

var _ chat.Repository = (*ChatRepository)(nil)

func NewChatRepository() *ChatRepository {
	return &ChatRepository{sessions: make(map[string]chat.Session)}
}

func (r *ChatRepository) Create(_ context.Context, s *chat.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *ChatRepository) Get(ctx context.Context, id string) (*chat.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, access.NotFound(ctx, "chat session", id)
	}
	return &s, nil
}

func (r *ChatRepository) List(_ context.Context, ownerID string) ([]*chat.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*chat.Session, 0)
	for _, s := range r.sessions {
		if s.OwnerID == ownerID {
			cp := s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *ChatRepository) Update(ctx context.Context, s *chat.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return access.NotFound(ctx, "chat session", s.ID)
	}
	r.sessions[s.ID] = *s
	return nil
}

func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return access.NotFound(ctx, "chat session", id)
	}
	delete(r.sessions, id)
	return nil
}
