package memrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

func TestMessageRepositoryAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := memrepo.NewMessageRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, &message.Message{SessionID: "sess_a", RoomID: "room_1", Content: "hi"}))
		}()
	}
	wg.Wait()

	all, err := repo.List(ctx, "sess_a", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 50)
	for i, m := range all {
		assert.Equal(t, int64(i+1), m.ID)
	}

	page, err := repo.List(ctx, "sess_a", 10, 5)
	require.NoError(t, err)
	require.Len(t, page, 5)
	assert.Equal(t, int64(11), page[0].ID)

	recent, err := repo.Recent(ctx, "sess_a", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, int64(48), recent[0].ID)
	assert.Equal(t, int64(50), recent[2].ID)
}

func TestMessageRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := memrepo.NewMessageRepository()
	require.NoError(t, repo.Append(ctx, &message.Message{SessionID: "s", Content: "original"}))

	got, err := repo.List(ctx, "s", 0, 10)
	require.NoError(t, err)
	got[0].Content = "mutated"

	again, err := repo.List(ctx, "s", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestSessionRepositoryRejectsSecondOpenSession(t *testing.T) {
	ctx := context.Background()
	repo := memrepo.NewSessionRepository()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &session.Session{ID: "sess_1", RoomID: "room_1", Status: session.StatusOpen, StartedAt: now}))
	err := repo.Create(ctx, &session.Session{ID: "sess_2", RoomID: "room_1", Status: session.StatusOpen, StartedAt: now})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	first, err := repo.Get(ctx, "sess_1")
	require.NoError(t, err)
	first.Close(now)
	require.NoError(t, repo.Update(ctx, first))
	require.NoError(t, repo.Create(ctx, &session.Session{ID: "sess_2", RoomID: "room_1", Status: session.StatusOpen, StartedAt: now}))

	list, err := repo.ListByRoom(ctx, "room_1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sess_2", list[0].ID)
}

func TestRoomRepositoryCountsParticipants(t *testing.T) {
	ctx := context.Background()
	repo := memrepo.NewRoomRepository()
	require.NoError(t, repo.Create(ctx, &room.Room{ID: "room_1", RoleIDs: []string{"role_a", "role_b"}}))
	require.NoError(t, repo.Create(ctx, &room.Room{ID: "room_2", RoleIDs: []string{"role_a"}}))

	n, err := repo.CountRoomsWithRole(ctx, "role_a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.Get(ctx, "room_missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
