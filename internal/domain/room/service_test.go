package room_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/llm"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/infrastructure/lock"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

const owner = "user_1"

type spy struct {
	mu     sync.Mutex
	halted []string
	closed []string
}

func (s *spy) Halt(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halted = append(s.halted, roomID)
}

func (s *spy) Publish(context.Context, string, realtime.Envelope) {}

func (s *spy) CloseRoom(_ context.Context, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = append(s.closed, roomID)
}

type fixture struct {
	store *memrepo.Store
	roles role.Service
	rooms room.Service
	spy   *spy
}

func newFixture() *fixture {
	store := memrepo.NewStore()
	log := zerolog.Nop()
	agents := agent.NewService(store.Agents, store.Roles, "", log)
	roles := role.NewService(store.Roles, agents, store.Rooms, log)
	s := &spy{}
	rooms := room.NewService(room.Dependencies{
		Repo:      store.Rooms,
		Roles:     roles,
		Locker:    lock.NewLocal(),
		Halter:    s,
		Publisher: s,
		Purgers:   []room.Purger{store.Messages, store.Sessions},
	}, log)
	return &fixture{store: store, roles: roles, rooms: rooms, spy: s}
}

func (f *fixture) role(t *testing.T, ownerID string) string {
	t.Helper()
	ctx := context.Background()
	agents := agent.NewService(f.store.Agents, f.store.Roles, "", zerolog.Nop())
	a, err := agents.Create(ctx, ownerID, agent.CreateParams{Name: "gpt", Provider: llm.ProviderMock, ModelName: "m"})
	require.NoError(t, err)
	r, err := f.roles.Create(ctx, ownerID, role.CreateParams{AgentID: a.ID, Name: "R"})
	require.NoError(t, err)
	return r.ID
}

func TestCreateRoomDefaults(t *testing.T) {
	f := newFixture()
	r, err := f.rooms.Create(context.Background(), owner, room.CreateParams{Name: "Ethics", Topic: "Is lying ever right?"})
	require.NoError(t, err)
	assert.Equal(t, room.ModeDebate, r.Mode)
	assert.Equal(t, room.DefaultMaxRounds, r.MaxRounds)
	assert.Equal(t, room.StatusIdle, r.Status)
	assert.Nil(t, r.CurrentSessionID)
	assert.Empty(t, r.RoleIDs)
}

func TestCreateRoomRoleChecks(t *testing.T) {
	f := newFixture()
	mine := f.role(t, owner)
	theirs := f.role(t, "someone_else")

	tests := []struct {
		name    string
		roleIDs []string
		want    platformerrors.ErrorType
	}{
		{"duplicate role", []string{mine, mine}, platformerrors.ErrorTypeValidation},
		{"unknown role", []string{"role_missing"}, platformerrors.ErrorTypeValidation},
		{"foreign role", []string{theirs}, platformerrors.ErrorTypeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.rooms.Create(context.Background(), owner, room.CreateParams{Name: "n", Topic: "t", RoleIDs: tt.roleIDs})
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, tt.want))
		})
	}

	bad := 0
	_, err := f.rooms.Create(context.Background(), owner, room.CreateParams{Name: "n", Topic: "t", MaxRounds: &bad})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestUpdateRoomGuards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	roleID := f.role(t, owner)
	r, err := f.rooms.Create(ctx, owner, room.CreateParams{Name: "n", Topic: "t", RoleIDs: []string{roleID}})
	require.NoError(t, err)

	topic := "new topic"
	updated, err := f.rooms.Update(ctx, owner, r.ID, room.UpdateParams{Topic: &topic})
	require.NoError(t, err)
	assert.Equal(t, "new topic", updated.Topic)

	// a stopped room with an open session keeps its participants
	sessionID := "sess_1"
	stored, err := f.store.Rooms.Get(ctx, r.ID)
	require.NoError(t, err)
	stored.Status = room.StatusStopped
	stored.CurrentSessionID = &sessionID
	require.NoError(t, f.store.Rooms.Update(ctx, stored))

	empty := []string{}
	_, err = f.rooms.Update(ctx, owner, r.ID, room.UpdateParams{RoleIDs: &empty})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	_, err = f.rooms.Update(ctx, owner, r.ID, room.UpdateParams{Topic: &topic})
	require.NoError(t, err)

	stored.Status = room.StatusRunning
	require.NoError(t, f.store.Rooms.Update(ctx, stored))
	_, err = f.rooms.Update(ctx, owner, r.ID, room.UpdateParams{Topic: &topic})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	_, err = f.rooms.Update(ctx, "intruder", r.ID, room.UpdateParams{Topic: &topic})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestUpdateMaxRoundsBelowPlayedRounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	roleID := f.role(t, owner)
	five := 5
	r, err := f.rooms.Create(ctx, owner, room.CreateParams{Name: "n", Topic: "t", RoleIDs: []string{roleID}, MaxRounds: &five})
	require.NoError(t, err)

	sessionID := "sess_1"
	stored, err := f.store.Rooms.Get(ctx, r.ID)
	require.NoError(t, err)
	stored.Status = room.StatusStopped
	stored.CurrentSessionID = &sessionID
	stored.CurrentRounds = 2
	require.NoError(t, f.store.Rooms.Update(ctx, stored))

	tests := []struct {
		name      string
		maxRounds int
		wantErr   bool
	}{
		{"below played rounds", 1, true},
		{"equal to played rounds", 2, false},
		{"above played rounds", 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxRounds := tt.maxRounds
			updated, err := f.rooms.Update(ctx, owner, r.ID, room.UpdateParams{MaxRounds: &maxRounds})
			if tt.wantErr {
				assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.maxRounds, updated.MaxRounds)
		})
	}

	// finished rooms start over from zero rounds, so any bound is accepted
	stored, err = f.store.Rooms.Get(ctx, r.ID)
	require.NoError(t, err)
	stored.Status = room.StatusFinished
	stored.CurrentSessionID = nil
	require.NoError(t, f.store.Rooms.Update(ctx, stored))
	one := 1
	_, err = f.rooms.Update(ctx, owner, r.ID, room.UpdateParams{MaxRounds: &one})
	require.NoError(t, err)
}

func TestDeleteRoomPurgesEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	roleID := f.role(t, owner)
	r, err := f.rooms.Create(ctx, owner, room.CreateParams{Name: "n", Topic: "t", RoleIDs: []string{roleID}})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, f.store.Sessions.Create(ctx, &session.Session{ID: "sess_1", RoomID: r.ID, Status: session.StatusOpen, StartedAt: now}))
	require.NoError(t, f.store.Messages.Append(ctx, &message.Message{SessionID: "sess_1", RoomID: r.ID, Sender: message.System(), Kind: message.KindSystem, Content: "hi", CreatedAt: now}))

	err = f.rooms.Delete(ctx, "intruder", r.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	require.NoError(t, f.rooms.Delete(ctx, owner, r.ID))
	assert.Equal(t, []string{r.ID}, f.spy.halted)
	assert.Equal(t, []string{r.ID}, f.spy.closed)

	_, err = f.rooms.Get(ctx, r.ID)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	sessions, err := f.store.Sessions.ListByRoom(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	msgs, err := f.store.Messages.List(ctx, "sess_1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// the role is free again
	require.NoError(t, f.roles.Delete(ctx, owner, roleID))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to room.Status
		want     bool
	}{
		{room.StatusIdle, room.StatusRunning, true},
		{room.StatusIdle, room.StatusStopped, false},
		{room.StatusRunning, room.StatusStopped, true},
		{room.StatusStopped, room.StatusRunning, true},
		{room.StatusFinished, room.StatusRunning, true},
		{room.StatusFinished, room.StatusStopped, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
