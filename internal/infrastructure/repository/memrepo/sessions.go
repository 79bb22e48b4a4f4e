package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

// SessionRepository stores room sessions in memory.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

var (
	_ session.Repository = (*SessionRepository)(nil)
	_ room.Purger        = (*SessionRepository)(nil)
)

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*session.Session)}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.IsOpen() {
		for _, existing := range r.sessions {
			if existing.RoomID == s.RoomID && existing.IsOpen() {
				return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
					"room already has an open session", nil, map[string]any{"room_id": s.RoomID, "session_id": existing.ID})
			}
		}
	}
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, access.NotFound(ctx, "session", id)
	}
	return s.Clone(), nil
}

func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return access.NotFound(ctx, "session", s.ID)
	}
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *SessionRepository) ListByRoom(_ context.Context, roomID string) ([]*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*session.Session, 0)
	for _, s := range r.sessions {
		if s.RoomID == roomID {
			out = append(out, s.Clone())
		}
	}
	// ids are time ordered
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *SessionRepository) DeleteByRoom(_ context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.RoomID == roomID {
			delete(r.sessions, id)
		}
	}
	return nil
}
