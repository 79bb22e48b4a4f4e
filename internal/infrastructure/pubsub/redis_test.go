package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/realtime"
)

// unreachableClient fails fast so Publish exercises the local fallback.
func unreachableClient(t *testing.T) redis.UniversalClient {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublishFallsBackToLocalHub(t *testing.T) {
	hub := realtime.NewHub(4, nil, zerolog.Nop())
	sub, ok := hub.Subscribe("room_1")
	require.True(t, ok)

	relay := NewRelay(unreachableClient(t), hub, zerolog.Nop())
	relay.Publish(context.Background(), "room_1", realtime.NewError("room_1", realtime.CodeTurnFailed, "boom"))

	select {
	case env := <-sub.C():
		assert.Equal(t, realtime.TypeError, env.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("envelope was not delivered locally")
	}

	relay.CloseRoom(context.Background(), "room_1")
	select {
	case _, open := <-sub.C():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not closed")
	}
}

func TestDeliverForwardsFrames(t *testing.T) {
	hub := realtime.NewHub(4, nil, zerolog.Nop())
	sub, _ := hub.Subscribe("room_9")
	relay := NewRelay(unreachableClient(t), hub, zerolog.Nop())

	payload, err := json.Marshal(frame{Type: realtime.TypeMessage, Data: json.RawMessage(`{"id":7}`)})
	require.NoError(t, err)
	relay.deliver(context.Background(), &redis.Message{Channel: Channel("room_9"), Payload: string(payload)})

	env := <-sub.C()
	assert.Equal(t, realtime.TypeMessage, env.Type)
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(raw))

	// malformed frames are dropped
	relay.deliver(context.Background(), &redis.Message{Channel: Channel("room_9"), Payload: "{"})
	assert.Len(t, sub.C(), 0)

	closing, err := json.Marshal(frame{Close: true})
	require.NoError(t, err)
	relay.deliver(context.Background(), &redis.Message{Channel: Channel("room_9"), Payload: string(closing)})
	_, open := <-sub.C()
	assert.False(t, open)
	assert.Equal(t, 0, hub.Count("room_9"))
}
