package message

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/utils/platformerrors"
	"github.com/janhq/arena-server/internal/utils/validation"
)

// Service is the Message Log of room sessions.
type Service interface {
	// Append adds a message to an open room session.
	Append(ctx context.Context, params AppendParams) (*Message, error)
	// AppendLocked is Append for callers that already hold the room lock and loaded r and sess under it.
	AppendLocked(ctx context.Context, r *room.Room, sess *session.Session, params AppendParams) (*Message, error)
	// PostUserMessage appends a human message to the room's current session.
	PostUserMessage(ctx context.Context, userID, displayName, roomID, content string) (*Message, error)
	// Fetch returns a transcript window. An empty sessionID selects the room's current session.
	Fetch(ctx context.Context, userID, roomID, sessionID string, page Page) (*FetchResult, error)
	// Recent returns the last n messages of a session in ascending order.
	Recent(ctx context.Context, sessionID string, n int) ([]*Message, error)
}

// Dependencies groups the collaborators of the Message Log.
type Dependencies struct {
	Repo      Repository
	Rooms     room.Repository
	Sessions  session.Repository
	Locker    room.Locker
	Publisher realtime.Publisher
	// Observer is optional.
	Observer AppendObserver
}

// AppendObserver is told about every committed message.
type AppendObserver interface {
	MessageAppended(roomID string, kind Kind)
}

type service struct {
	deps Dependencies
	log  zerolog.Logger
}

// NewService wires the Message Log.
func NewService(deps Dependencies, log zerolog.Logger) Service {
	return &service{
		deps: deps,
		log:  log.With().Str("component", "message-log").Logger(),
	}
}

func (s *service) Append(ctx context.Context, params AppendParams) (*Message, error) {
	sess, err := s.deps.Sessions.Get(ctx, params.SessionID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.deps.Locker.Lock(ctx, room.LockKey(sess.RoomID))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lock room")
	}
	defer unlock()

	r, err := s.deps.Rooms.Get(ctx, sess.RoomID)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, sessionClosed(ctx, sess.RoomID, params.SessionID)
		}
		return nil, err
	}
	// reload under the lock
	sess, err = s.deps.Sessions.Get(ctx, params.SessionID)
	if err != nil {
		return nil, err
	}
	return s.AppendLocked(ctx, r, sess, params)
}

func (s *service) AppendLocked(ctx context.Context, r *room.Room, sess *session.Session, params AppendParams) (*Message, error) {
	params.SessionID = sess.ID
	if err := validation.Struct(ctx, platformerrors.LayerDomain, params); err != nil {
		return nil, err
	}
	if sess.RoomID != r.ID || !sess.IsOpen() || r.SessionID() != sess.ID {
		return nil, sessionClosed(ctx, r.ID, sess.ID)
	}

	m := &Message{
		SessionID:  sess.ID,
		RoomID:     r.ID,
		Sender:     params.Sender,
		SenderName: params.SenderName,
		Kind:       params.Kind,
		Content:    params.Content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.deps.Repo.Append(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "append message")
	}

	s.deps.Publisher.Publish(ctx, r.ID, m.Envelope())
	if s.deps.Observer != nil {
		s.deps.Observer.MessageAppended(r.ID, m.Kind)
	}
	s.log.Debug().
		Str("room_id", r.ID).
		Str("session_id", sess.ID).
		Int64("message_id", m.ID).
		Str("sender_type", string(m.Sender.Type)).
		Msg("message appended")
	return m, nil
}

func (s *service) PostUserMessage(ctx context.Context, userID, displayName, roomID, content string) (*Message, error) {
	content = strings.TrimSpace(content)

	unlock, err := s.deps.Locker.Lock(ctx, room.LockKey(roomID))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lock room")
	}
	defer unlock()

	r, err := s.deps.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(ctx, "room", roomID, r.OwnerID, userID); err != nil {
		return nil, err
	}
	if r.CurrentSessionID == nil {
		return nil, sessionClosed(ctx, roomID, "")
	}
	sess, err := s.deps.Sessions.Get(ctx, *r.CurrentSessionID)
	if err != nil {
		return nil, err
	}

	if displayName == "" {
		displayName = "User"
	}
	return s.AppendLocked(ctx, r, sess, AppendParams{
		SessionID:  sess.ID,
		Sender:     FromUser(userID),
		SenderName: displayName,
		Kind:       KindUser,
		Content:    content,
	})
}

func (s *service) Fetch(ctx context.Context, userID, roomID, sessionID string, page Page) (*FetchResult, error) {
	r, err := s.deps.Rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(ctx, "room", roomID, r.OwnerID, userID); err != nil {
		return nil, err
	}

	if sessionID == "" {
		sessionID = r.SessionID()
		if sessionID == "" {
			return &FetchResult{Messages: []*Message{}}, nil
		}
	} else {
		sess, err := s.deps.Sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if sess.RoomID != roomID {
			return nil, access.NotFound(ctx, "session", sessionID)
		}
	}

	page = page.Normalize()
	// one extra row tells whether another page exists
	messages, err := s.deps.Repo.List(ctx, sessionID, page.AfterID, page.Limit+1)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list messages")
	}

	hasMore := len(messages) > page.Limit
	if hasMore {
		messages = messages[:page.Limit]
	}
	return &FetchResult{SessionID: sessionID, Messages: messages, HasMore: hasMore}, nil
}

func (s *service) Recent(ctx context.Context, sessionID string, n int) ([]*Message, error) {
	return s.deps.Repo.Recent(ctx, sessionID, n)
}

func sessionClosed(ctx context.Context, roomID, sessionID string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeSessionClosed,
		"session is not open for new messages", nil, map[string]any{"room_id": roomID, "session_id": sessionID})
}
