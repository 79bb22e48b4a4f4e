// Package pubsub relays realtime envelopes between instances through Redis.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/realtime"
)

const channelPrefix = "arena:rooms:"

// frame is the wire form of an envelope on a room channel.
type frame struct {
	Close bool                  `json:"close,omitempty"`
	Type  realtime.EnvelopeType `json:"type,omitempty"`
	Data  json.RawMessage       `json:"data,omitempty"`
}

// Relay publishes envelopes on a per-room Redis channel and forwards every
// frame it receives into the local hub, so subscribers connected to any
// instance see the same stream.
type Relay struct {
	client redis.UniversalClient
	hub    *realtime.Hub
	log    zerolog.Logger
}

var _ realtime.Publisher = (*Relay)(nil)

func NewRelay(client redis.UniversalClient, hub *realtime.Hub, log zerolog.Logger) *Relay {
	return &Relay{client: client, hub: hub, log: log.With().Str("component", "redis-relay").Logger()}
}

// Channel is the Redis channel of roomID.
func Channel(roomID string) string {
	return channelPrefix + roomID
}

func (r *Relay) Publish(ctx context.Context, roomID string, env realtime.Envelope) {
	data, err := json.Marshal(env.Data)
	if err != nil {
		r.log.Error().Err(err).Str("room_id", roomID).Msg("encode envelope")
		return
	}
	r.send(ctx, roomID, frame{Type: env.Type, Data: data}, func() { r.hub.Publish(ctx, roomID, env) })
}

func (r *Relay) CloseRoom(ctx context.Context, roomID string) {
	r.send(ctx, roomID, frame{Close: true}, func() { r.hub.CloseRoom(ctx, roomID) })
}

// send falls back to local delivery when Redis is unreachable.
func (r *Relay) send(ctx context.Context, roomID string, f frame, local func()) {
	payload, err := json.Marshal(f)
	if err != nil {
		r.log.Error().Err(err).Str("room_id", roomID).Msg("encode frame")
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := r.client.Publish(pubCtx, Channel(roomID), payload).Err(); err != nil {
		r.log.Warn().Err(err).Str("room_id", roomID).Msg("redis publish failed, delivering locally")
		local()
	}
}

// Run relays frames from Redis into the local hub until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to room channels: %w", err)
	}
	r.log.Info().Msg("redis relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.deliver(ctx, msg)
		}
	}
}

func (r *Relay) deliver(ctx context.Context, msg *redis.Message) {
	roomID := strings.TrimPrefix(msg.Channel, channelPrefix)
	var f frame
	if err := json.Unmarshal([]byte(msg.Payload), &f); err != nil {
		r.log.Warn().Err(err).Str("channel", msg.Channel).Msg("drop malformed frame")
		return
	}
	if f.Close {
		r.hub.CloseRoom(ctx, roomID)
		return
	}
	r.hub.Publish(ctx, roomID, realtime.Envelope{Type: f.Type, Data: f.Data})
}
