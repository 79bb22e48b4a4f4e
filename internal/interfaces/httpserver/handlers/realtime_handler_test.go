package handlers_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/infrastructure/lock"
	"github.com/janhq/arena-server/internal/infrastructure/repository/memrepo"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

type noopHalter struct{}

func (noopHalter) Halt(string) {}

// racingHub lets a test change the room around the moment a client subscribes.
type racingHub struct {
	*realtime.Hub
	beforeSubscribe func()
	afterSubscribe  func()
}

func (h *racingHub) Subscribe(roomID string) (*realtime.Subscription, bool) {
	if h.beforeSubscribe != nil {
		h.beforeSubscribe()
	}
	sub, ok := h.Hub.Subscribe(roomID)
	if ok && h.afterSubscribe != nil {
		h.afterSubscribe()
	}
	return sub, ok
}

type frame struct {
	Type string `json:"type"`
	Data struct {
		Status  string `json:"status"`
		Content string `json:"content"`
	} `json:"data"`
}

func TestRealtimeStatusFrameReflectsStateAtSubscribe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()
	ctx := context.Background()
	store := memrepo.NewStore()
	locker := lock.NewLocal()
	hub := realtime.NewHub(8, nil, log)
	t.Cleanup(hub.Shutdown)

	agents := agent.NewService(store.Agents, store.Roles, "", log)
	roles := role.NewService(store.Roles, agents, store.Rooms, log)
	rooms := room.NewService(room.Dependencies{
		Repo:      store.Rooms,
		Roles:     roles,
		Locker:    locker,
		Halter:    noopHalter{},
		Publisher: hub,
	}, log)
	messages := message.NewService(message.Dependencies{
		Repo:      store.Messages,
		Rooms:     store.Rooms,
		Sessions:  store.Sessions,
		Locker:    locker,
		Publisher: hub,
	}, log)

	sessionID := "sess_1"
	now := time.Now().UTC()
	require.NoError(t, store.Rooms.Create(ctx, &room.Room{
		ID:               "room_1",
		OwnerID:          access.AnonymousUser,
		Name:             "arena",
		Topic:            "t",
		Mode:             room.ModeDebate,
		MaxRounds:        3,
		Status:           room.StatusRunning,
		CurrentSessionID: &sessionID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}))

	racing := &racingHub{
		Hub: hub,
		// a stop lands between the access check and the subscription
		beforeSubscribe: func() {
			rm, err := store.Rooms.Get(ctx, "room_1")
			if !assert.NoError(t, err) {
				return
			}
			rm.Status = room.StatusStopped
			assert.NoError(t, store.Rooms.Update(ctx, rm))
		},
		// and a message is published before the status frame is written
		afterSubscribe: func() {
			hub.Publish(ctx, "room_1", realtime.Envelope{Type: realtime.TypeMessage, Data: map[string]string{"content": "queued"}})
		},
	}

	h := handlers.NewRealtimeHandler(rooms, messages, racing, handlers.RealtimeConfig{WriteTimeout: time.Second, PingInterval: time.Minute}, log)
	router := gin.New()
	router.GET("/v1/ws/rooms/:id", h.Connect)
	ts := httptest.NewServer(router)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/v1/ws/rooms/room_1", nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first, second frame
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "status", first.Type)
	assert.Equal(t, "stopped", first.Data.Status)

	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "message", second.Type)
	assert.Equal(t, "queued", second.Data.Content)
}
