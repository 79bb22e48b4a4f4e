package memrepo

import (
	"context"
	"sync"

	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/room"
)

// MessageRepository stores transcripts in memory, one ordered slice per session.
type MessageRepository struct {
	mu       sync.RWMutex
	sessions map[string][]*message.Message
}

var (
	_ message.Repository = (*MessageRepository)(nil)
	_ room.Purger        = (*MessageRepository)(nil)
)

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{sessions: make(map[string][]*message.Message)}
}

func (r *MessageRepository) Append(_ context.Context, m *message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.sessions[m.SessionID]
	m.ID = int64(len(list)) + 1
	r.sessions[m.SessionID] = append(list, m.Clone())
	return nil
}

func (r *MessageRepository) List(_ context.Context, sessionID string, afterID int64, limit int) ([]*message.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sessions[sessionID]
	out := make([]*message.Message, 0)
	// ids are 1-based positions
	for i := int(afterID); i >= 0 && i < len(list); i++ {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, list[i].Clone())
	}
	return out, nil
}

func (r *MessageRepository) Recent(_ context.Context, sessionID string, n int) ([]*message.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.sessions[sessionID]
	start := 0
	if n > 0 && len(list) > n {
		start = len(list) - n
	}
	out := make([]*message.Message, 0, len(list)-start)
	for _, m := range list[start:] {
		out = append(out, m.Clone())
	}
	return out, nil
}

func (r *MessageRepository) DeleteBySession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *MessageRepository) DeleteByRoom(_ context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, list := range r.sessions {
		if len(list) > 0 && list[0].RoomID == roomID {
			delete(r.sessions, id)
		}
	}
	return nil
}
