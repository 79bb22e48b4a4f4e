package realtime_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/domain/realtime"
)

type recordingObserver struct {
	mu      sync.Mutex
	removed []realtime.CloseReason
}

func (o *recordingObserver) SubscriberAdded(string) {}

func (o *recordingObserver) SubscriberRemoved(_ string, reason realtime.CloseReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removed = append(o.removed, reason)
}

func (o *recordingObserver) EnvelopePublished(string, realtime.EnvelopeType) {}

func TestHubDeliversInPublishOrder(t *testing.T) {
	hub := realtime.NewHub(8, nil, zerolog.Nop())
	sub, ok := hub.Subscribe("room_1")
	require.True(t, ok)

	for i := 1; i <= 3; i++ {
		hub.Publish(context.Background(), "room_1", realtime.Envelope{Type: realtime.TypeMessage, Data: i})
	}

	for i := 1; i <= 3; i++ {
		env := <-sub.C()
		assert.Equal(t, i, env.Data)
	}
}

func TestHubIsolatesRooms(t *testing.T) {
	hub := realtime.NewHub(8, nil, zerolog.Nop())
	a, _ := hub.Subscribe("room_a")
	b, _ := hub.Subscribe("room_b")

	hub.Publish(context.Background(), "room_a", realtime.Envelope{Type: realtime.TypeStatus})

	assert.Len(t, a.C(), 1)
	assert.Len(t, b.C(), 0)
}

func TestHubDropsSlowSubscriberWithoutBlocking(t *testing.T) {
	observer := &recordingObserver{}
	hub := realtime.NewHub(2, observer, zerolog.Nop())
	slow, _ := hub.Subscribe("room_1")
	fast, _ := hub.Subscribe("room_1")

	for i := 0; i < 3; i++ {
		hub.Publish(context.Background(), "room_1", realtime.Envelope{Type: realtime.TypeMessage, Data: i})
		// fast keeps draining, slow never reads
		<-fast.C()
	}

	received := 0
	for range slow.C() {
		received++
	}
	assert.Equal(t, 2, received, "slow subscriber keeps what was queued before the overflow")
	assert.Equal(t, realtime.ReasonSlowConsumer, slow.Reason())
	assert.Equal(t, 1, hub.Count("room_1"))
	assert.Equal(t, []realtime.CloseReason{realtime.ReasonSlowConsumer}, observer.removed)
}

func TestHubCloseRoomDisconnectsEveryone(t *testing.T) {
	hub := realtime.NewHub(4, nil, zerolog.Nop())
	first, _ := hub.Subscribe("room_1")
	second, _ := hub.Subscribe("room_1")

	hub.CloseRoom(context.Background(), "room_1")

	_, open := <-first.C()
	assert.False(t, open)
	_, open = <-second.C()
	assert.False(t, open)
	assert.Equal(t, realtime.ReasonRoomClosed, first.Reason())
	assert.Zero(t, hub.Count("room_1"))
}

func TestHubUnsubscribeIsIdempotent(t *testing.T) {
	hub := realtime.NewHub(4, nil, zerolog.Nop())
	sub, _ := hub.Subscribe("room_1")

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	assert.Equal(t, realtime.ReasonUnsubscribed, sub.Reason())
}

func TestHubRejectsSubscribersAfterShutdown(t *testing.T) {
	hub := realtime.NewHub(4, nil, zerolog.Nop())
	sub, _ := hub.Subscribe("room_1")

	hub.Shutdown()

	_, open := <-sub.C()
	assert.False(t, open)
	_, ok := hub.Subscribe("room_1")
	assert.False(t, ok)
}
