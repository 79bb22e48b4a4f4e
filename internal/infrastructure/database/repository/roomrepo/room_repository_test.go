package roomrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/infrastructure/database/databasetest"
	"github.com/janhq/arena-server/internal/infrastructure/database/repository/roomrepo"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

func newRoom(id, owner string, status room.Status, roles ...string) *room.Room {
	now := time.Now().UTC()
	return &room.Room{
		ID:        id,
		OwnerID:   owner,
		Name:      "Room " + id,
		Topic:     "topic",
		Mode:      room.ModeDebate,
		MaxRounds: 5,
		Status:    status,
		RoleIDs:   roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRoomRoundTripKeepsParticipantOrder(t *testing.T) {
	repo := roomrepo.NewRoomGormRepository(databasetest.New(t))
	ctx := context.Background()

	r := newRoom("room_1", "user_1", room.StatusIdle, "role_c", "role_a", "role_b")
	require.NoError(t, repo.Create(ctx, r))

	got, err := repo.Get(ctx, "room_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"role_c", "role_a", "role_b"}, got.RoleIDs)
	assert.Nil(t, got.CurrentSessionID)

	sessionID := "sess_1"
	got.CurrentSessionID = &sessionID
	got.Status = room.StatusRunning
	got.CurrentRounds = 2
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.Get(ctx, "room_1")
	require.NoError(t, err)
	assert.Equal(t, "sess_1", again.SessionID())
	assert.Equal(t, 2, again.CurrentRounds)

	running, err := repo.ListByStatus(ctx, room.StatusRunning)
	require.NoError(t, err)
	require.Len(t, running, 1)
}

func TestCountRoomsWithRoleMatchesWholeIDs(t *testing.T) {
	repo := roomrepo.NewRoomGormRepository(databasetest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRoom("room_1", "u", room.StatusIdle, "role_1", "role_2")))
	require.NoError(t, repo.Create(ctx, newRoom("room_2", "u", room.StatusIdle, "role_10")))
	require.NoError(t, repo.Create(ctx, newRoom("room_3", "u", room.StatusIdle)))

	n, err := repo.CountRoomsWithRole(ctx, "role_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CountRoomsWithRole(ctx, "role_3")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteMissingRoom(t *testing.T) {
	repo := roomrepo.NewRoomGormRepository(databasetest.New(t))
	err := repo.Delete(context.Background(), "room_x")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
