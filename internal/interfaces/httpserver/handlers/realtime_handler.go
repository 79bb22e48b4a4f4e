package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/arena-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

const (
	maxFrameSize = 64 << 10
	replyQueue   = 8
)

// Subscriber is the part of the realtime hub the gateway needs.
type Subscriber interface {
	Subscribe(roomID string) (*realtime.Subscription, bool)
	Unsubscribe(sub *realtime.Subscription)
}

// RealtimeConfig tunes websocket connections.
type RealtimeConfig struct {
	WriteTimeout time.Duration
	PingInterval time.Duration
}

// RealtimeHandler is the websocket side of the Realtime Gateway.
type RealtimeHandler struct {
	rooms    room.Service
	messages message.Service
	hub      Subscriber
	cfg      RealtimeConfig
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewRealtimeHandler(rooms room.Service, messages message.Service, hub Subscriber, cfg RealtimeConfig, log zerolog.Logger) *RealtimeHandler {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	return &RealtimeHandler{
		rooms:    rooms,
		messages: messages,
		hub:      hub,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// bearer tokens, not cookies, authenticate the upgrade
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.With().Str("handler", "realtime").Logger(),
	}
}

// Connect handles GET /v1/ws/rooms/:id
// @Summary Subscribe to a room
// @Description Upgrades to a websocket that pushes {type, data} envelopes of type message, status and error.
// @Description The first frame is the current status of the room. Clients may send {"type":"message","data":{"content":"..."}}.
// @Tags Realtime
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param token query string false "Access token for clients that cannot set headers"
// @Success 101
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/ws/rooms/{id} [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	name := displayName(c)

	roomID := c.Param("id")
	if _, err := h.rooms.GetForUser(ctx, uid, roomID); err != nil {
		responses.HandleError(c, err, h.log)
		return
	}

	sub, ok := h.hub.Subscribe(roomID)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "realtime gateway is shutting down")
		return
	}
	// the status frame is read after subscribing: a transition either shows up
	// in r or arrives on sub
	r, err := h.rooms.GetForUser(ctx, uid, roomID)
	if err != nil {
		h.hub.Unsubscribe(sub)
		responses.HandleError(c, err, h.log)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.Unsubscribe(sub)
		h.log.Debug().Err(err).Str("room_id", r.ID).Msg("websocket upgrade failed")
		return
	}

	log := h.log.With().Str("room_id", r.ID).Uint64("subscriber_id", sub.ID).Logger()
	log.Debug().Msg("websocket connected")

	if err := h.writeEnvelope(conn, session.NewStatusEnvelope(r)); err != nil {
		log.Debug().Err(err).Msg("write initial status")
		h.hub.Unsubscribe(sub)
		_ = conn.Close()
		return
	}

	replies := make(chan realtime.Envelope, replyQueue)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.readLoop(ctx, conn, r.ID, uid, name, replies, log)
	}()

	h.writeLoop(conn, sub, replies, done, log)

	h.hub.Unsubscribe(sub)
	_ = conn.Close()
	<-done
	log.Debug().Msg("websocket disconnected")
}

// writeLoop owns every write on conn.
func (h *RealtimeHandler) writeLoop(conn *websocket.Conn, sub *realtime.Subscription, replies <-chan realtime.Envelope, done <-chan struct{}, log zerolog.Logger) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case env := <-replies:
			if err := h.writeEnvelope(conn, env); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case env, ok := <-sub.C():
			if !ok {
				reason := string(sub.Reason())
				log.Info().Str("reason", reason).Msg("subscription closed by hub")
				deadline := time.Now().Add(h.cfg.WriteTimeout)
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(closeCode(sub.Reason()), reason), deadline)
				return
			}
			if err := h.writeEnvelope(conn, env); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Msg("websocket ping failed")
				return
			}
		case <-done:
			return
		}
	}
}

func (h *RealtimeHandler) writeEnvelope(conn *websocket.Conn, env realtime.Envelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	return conn.WriteJSON(env)
}

// readLoop handles inbound frames until the peer goes away.
func (h *RealtimeHandler) readLoop(ctx context.Context, conn *websocket.Conn, roomID, uid, name string, replies chan<- realtime.Envelope, log zerolog.Logger) {
	pongWait := 2 * h.cfg.PingInterval
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		if kind != websocket.TextMessage {
			h.reply(replies, realtime.NewError(roomID, realtime.CodeInvalidFrame, "only text frames are accepted"), log)
			continue
		}

		var frame requests.ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Type != string(realtime.TypeMessage) {
			h.reply(replies, realtime.NewError(roomID, realtime.CodeInvalidFrame, `expected {"type":"message","data":{"content":"..."}}`), log)
			continue
		}

		// the message itself reaches this connection through the hub
		if _, err := h.messages.PostUserMessage(ctx, uid, name, roomID, frame.Data.Content); err != nil {
			msg := err.Error()
			var pe *platformerrors.PlatformError
			if errors.As(err, &pe) {
				msg = pe.Message
			}
			h.reply(replies, realtime.NewError(roomID, realtime.CodeAppendRejected, msg), log)
		}
	}
}

// reply never blocks the reader; a client flooding bad frames loses replies.
func (h *RealtimeHandler) reply(replies chan<- realtime.Envelope, env realtime.Envelope, log zerolog.Logger) {
	select {
	case replies <- env:
	default:
		log.Warn().Msg("reply queue full, dropping error envelope")
	}
}

func closeCode(reason realtime.CloseReason) int {
	switch reason {
	case realtime.ReasonSlowConsumer:
		return websocket.ClosePolicyViolation
	case realtime.ReasonShutdown:
		return websocket.CloseGoingAway
	default:
		return websocket.CloseNormalClosure
	}
}
