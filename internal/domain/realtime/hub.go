package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// CloseReason explains why a subscription channel was closed.
type CloseReason string

const (
	ReasonUnsubscribed CloseReason = "unsubscribed"
	ReasonSlowConsumer CloseReason = "slow_consumer"
	ReasonRoomClosed   CloseReason = "room_closed"
	ReasonShutdown     CloseReason = "shutdown"
)

// Observer receives hub lifecycle events, typically for metrics.
type Observer interface {
	SubscriberAdded(roomID string)
	SubscriberRemoved(roomID string, reason CloseReason)
	EnvelopePublished(roomID string, t EnvelopeType)
}

type nopObserver struct{}

func (nopObserver) SubscriberAdded(string)                 {}
func (nopObserver) SubscriberRemoved(string, CloseReason)  {}
func (nopObserver) EnvelopePublished(string, EnvelopeType) {}

// Subscription is one consumer of a room's envelopes.
type Subscription struct {
	ID     uint64
	RoomID string

	ch     chan Envelope
	reason CloseReason
}

// C returns the envelope stream. It is closed when the subscription ends.
func (s *Subscription) C() <-chan Envelope {
	return s.ch
}

// Reason is valid once C is closed.
func (s *Subscription) Reason() CloseReason {
	return s.reason
}

// Hub is the in-process room pub/sub. Publish never blocks: a subscriber whose
// queue is full is closed with ReasonSlowConsumer and must reconnect.
type Hub struct {
	mu        sync.Mutex
	rooms     map[string]map[uint64]*Subscription
	nextID    uint64
	queueSize int
	closed    bool
	observer  Observer
	log       zerolog.Logger
}

// NewHub creates a hub whose subscribers buffer up to queueSize envelopes.
func NewHub(queueSize int, observer Observer, log zerolog.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = 64
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Hub{
		rooms:     make(map[string]map[uint64]*Subscription),
		queueSize: queueSize,
		observer:  observer,
		log:       log.With().Str("component", "realtime-hub").Logger(),
	}
}

// Subscribe registers a new subscriber for roomID. It returns false after Shutdown.
func (h *Hub) Subscribe(roomID string) (*Subscription, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, false
	}

	h.nextID++
	sub := &Subscription{
		ID:     h.nextID,
		RoomID: roomID,
		ch:     make(chan Envelope, h.queueSize),
	}

	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[uint64]*Subscription)
		h.rooms[roomID] = subs
	}
	subs[sub.ID] = sub

	h.observer.SubscriberAdded(roomID)
	h.log.Debug().Str("room_id", roomID).Uint64("subscriber_id", sub.ID).Msg("subscriber added")
	return sub, true
}

// Unsubscribe removes sub. It is safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub, ReasonUnsubscribed)
}

// Publish delivers env to every current subscriber of roomID without blocking.
func (h *Hub) Publish(_ context.Context, roomID string, env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.observer.EnvelopePublished(roomID, env.Type)
	for _, sub := range h.rooms[roomID] {
		select {
		case sub.ch <- env:
		default:
			h.log.Warn().
				Str("room_id", roomID).
				Uint64("subscriber_id", sub.ID).
				Int("queue_size", h.queueSize).
				Msg("subscriber queue full, dropping subscriber")
			h.removeLocked(sub, ReasonSlowConsumer)
		}
	}
}

// CloseRoom disconnects every subscriber of roomID.
func (h *Hub) CloseRoom(_ context.Context, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.rooms[roomID] {
		h.removeLocked(sub, ReasonRoomClosed)
	}
}

// Shutdown closes every subscription and rejects new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, subs := range h.rooms {
		for _, sub := range subs {
			h.removeLocked(sub, ReasonShutdown)
		}
	}
}

// Count returns the number of subscribers of roomID.
func (h *Hub) Count(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

func (h *Hub) removeLocked(sub *Subscription, reason CloseReason) {
	subs, ok := h.rooms[sub.RoomID]
	if !ok {
		return
	}
	if _, ok := subs[sub.ID]; !ok {
		return
	}

	delete(subs, sub.ID)
	if len(subs) == 0 {
		delete(h.rooms, sub.RoomID)
	}

	sub.reason = reason
	close(sub.ch)
	h.observer.SubscriberRemoved(sub.RoomID, reason)
}
