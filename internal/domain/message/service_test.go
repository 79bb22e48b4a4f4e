package message_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/infrastructure/lock"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

const owner = "user_1"

type countingPublisher struct {
	mu    sync.Mutex
	count int
}

func (p *countingPublisher) Publish(context.Context, string, realtime.Envelope) {
	p.mu.Lock()
	p.count++
	p.mu.Unlock()
}

func (p *countingPublisher) CloseRoom(context.Context, string) {}

type fixture struct {
	store   *memrepo.Store
	service message.Service
	pub     *countingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memrepo.NewStore()
	pub := &countingPublisher{}
	svc := message.NewService(message.Dependencies{
		Repo:      store.Messages,
		Rooms:     store.Rooms,
		Sessions:  store.Sessions,
		Locker:    lock.NewLocal(),
		Publisher: pub,
	}, zerolog.Nop())
	return &fixture{store: store, service: svc, pub: pub}
}

// openRoom stores a running room with one open session.
func (f *fixture) openRoom(t *testing.T, roomID, sessionID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, f.store.Rooms.Create(ctx, &room.Room{
		ID: roomID, OwnerID: owner, Name: "r", Topic: "t", Mode: room.ModeDebate,
		MaxRounds: 10, Status: room.StatusRunning, RoleIDs: []string{"role_a"},
		CurrentSessionID: &sessionID, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, f.store.Sessions.Create(ctx, &session.Session{
		ID: sessionID, RoomID: roomID, Status: session.StatusOpen, StartedAt: now,
	}))
}

func TestConcurrentAppendsAreGapFree(t *testing.T) {
	f := newFixture(t)
	f.openRoom(t, "room_1", "sess_1")

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := f.service.PostUserMessage(context.Background(), owner, "alice", "room_1", "hello")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	res, err := f.service.Fetch(context.Background(), owner, "room_1", "", message.Page{Limit: message.MaxPageLimit})
	require.NoError(t, err)
	require.Len(t, res.Messages, writers*perWriter)
	for i, m := range res.Messages {
		assert.Equal(t, int64(i+1), m.ID)
	}
	assert.Equal(t, writers*perWriter, f.pub.count)
}

func TestAppendRejectedWithoutOpenSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, f.store.Rooms.Create(ctx, &room.Room{
		ID: "room_idle", OwnerID: owner, Name: "r", Topic: "t", Mode: room.ModeDebate,
		MaxRounds: 10, Status: room.StatusIdle, CreatedAt: now, UpdatedAt: now,
	}))

	_, err := f.service.PostUserMessage(ctx, owner, "alice", "room_idle", "hi")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeSessionClosed))

	f.openRoom(t, "room_2", "sess_2")
	sess, err := f.store.Sessions.Get(ctx, "sess_2")
	require.NoError(t, err)
	sess.Close(now)
	require.NoError(t, f.store.Sessions.Update(ctx, sess))

	_, err = f.service.Append(ctx, message.AppendParams{
		SessionID: "sess_2", Sender: message.System(), Kind: message.KindSystem, Content: "late",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeSessionClosed))
	assert.Equal(t, 0, f.pub.count)
}

func TestAppendValidatesContent(t *testing.T) {
	f := newFixture(t)
	f.openRoom(t, "room_1", "sess_1")

	_, err := f.service.PostUserMessage(context.Background(), owner, "alice", "room_1", "   ")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestFetchPagesAndOwnership(t *testing.T) {
	f := newFixture(t)
	f.openRoom(t, "room_1", "sess_1")
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.service.PostUserMessage(ctx, owner, "", "room_1", "m")
		require.NoError(t, err)
	}

	res, err := f.service.Fetch(ctx, owner, "room_1", "", message.Page{AfterID: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "sess_1", res.SessionID)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, int64(2), res.Messages[0].ID)
	assert.True(t, res.HasMore)
	assert.Equal(t, "User", res.Messages[0].SenderName)

	res, err = f.service.Fetch(ctx, owner, "room_1", "sess_1", message.Page{AfterID: 3})
	require.NoError(t, err)
	assert.Len(t, res.Messages, 2)
	assert.False(t, res.HasMore)

	_, err = f.service.Fetch(ctx, "someone_else", "room_1", "", message.Page{})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	f.openRoom(t, "room_2", "sess_2")
	_, err = f.service.Fetch(ctx, owner, "room_1", "sess_2", message.Page{})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestRecentReturnsTail(t *testing.T) {
	f := newFixture(t)
	f.openRoom(t, "room_1", "sess_1")
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := f.service.PostUserMessage(ctx, owner, "alice", "room_1", "m")
		require.NoError(t, err)
	}
	recent, err := f.service.Recent(ctx, "sess_1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(3), recent[0].ID)
	assert.Equal(t, int64(4), recent[1].ID)
}
