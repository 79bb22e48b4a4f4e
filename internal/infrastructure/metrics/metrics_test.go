package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/orchestrator"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/infrastructure/metrics"
)

func TestObserverUpdatesCollectors(t *testing.T) {
	obs := metrics.Observer{}

	before := testutil.ToFloat64(metrics.Turns.WithLabelValues(string(room.ModeDebate), orchestrator.OutcomeSpoken))
	obs.TurnFinished(room.ModeDebate, orchestrator.OutcomeSpoken, 1, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Turns.WithLabelValues(string(room.ModeDebate), orchestrator.OutcomeSpoken)))

	dropped := testutil.ToFloat64(metrics.RealtimeDisconnects.WithLabelValues(string(realtime.ReasonSlowConsumer)))
	subs := testutil.ToFloat64(metrics.RealtimeSubscribers)
	obs.SubscriberAdded("room_1")
	obs.SubscriberRemoved("room_1", realtime.ReasonSlowConsumer)
	assert.Equal(t, subs, testutil.ToFloat64(metrics.RealtimeSubscribers))
	assert.Equal(t, dropped+1, testutil.ToFloat64(metrics.RealtimeDisconnects.WithLabelValues(string(realtime.ReasonSlowConsumer))))

	running := testutil.ToFloat64(metrics.RoomsRunning)
	obs.RunnerStarted("room_1")
	assert.Equal(t, running+1, testutil.ToFloat64(metrics.RoomsRunning))
	obs.RunnerStopped("room_1")
	assert.Equal(t, running, testutil.ToFloat64(metrics.RoomsRunning))
}

func TestObserverCountsAppendedMessages(t *testing.T) {
	obs := metrics.Observer{}
	before := testutil.ToFloat64(metrics.MessagesAppended.WithLabelValues(string(message.KindUser)))
	obs.MessageAppended("room_1", message.KindUser)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MessagesAppended.WithLabelValues(string(message.KindUser))))
}
