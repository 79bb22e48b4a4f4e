package memrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/utils/functional"
)

// RoomRepository stores rooms in memory.
type RoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room
}

var (
	_ room.Repository  = (*RoomRepository)(nil)
	_ role.RoomCounter = (*RoomRepository)(nil)
)

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{rooms: make(map[string]*room.Room)}
}

func (r *RoomRepository) Create(_ context.Context, rm *room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[rm.ID] = rm.Clone()
	return nil
}

func (r *RoomRepository) Get(ctx context.Context, id string) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[id]
	if !ok {
		return nil, access.NotFound(ctx, "room", id)
	}
	return rm.Clone(), nil
}

func (r *RoomRepository) List(_ context.Context, ownerID string) ([]*room.Room, error) {
	return r.filter(func(rm *room.Room) bool { return rm.OwnerID == ownerID }), nil
}

func (r *RoomRepository) ListByStatus(_ context.Context, status room.Status) ([]*room.Room, error) {
	return r.filter(func(rm *room.Room) bool { return rm.Status == status }), nil
}

func (r *RoomRepository) filter(keep func(*room.Room) bool) []*room.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*room.Room, 0)
	for _, rm := range r.rooms {
		if keep(rm) {
			out = append(out, rm.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[rm.ID]; !ok {
		return access.NotFound(ctx, "room", rm.ID)
	}
	r.rooms[rm.ID] = rm.Clone()
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return access.NotFound(ctx, "room", id)
	}
	delete(r.rooms, id)
	return nil
}

func (r *RoomRepository) CountRoomsWithRole(_ context.Context, roleID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, rm := range r.rooms {
		if functional.Contains(rm.RoleIDs, roleID) {
			n++
		}
	}
	return n, nil
}
