package arenaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Stream is a live websocket subscription to one room.
type Stream struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Dial opens the room websocket. The first envelope received is the room status.
func (c *Client) Dial(ctx context.Context, roomID string) (*Stream, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/v1/ws/rooms/" + url.PathEscape(roomID)

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: "websocket handshake rejected: " + resp.Status}
		}
		return nil, fmt.Errorf("dial room stream: %w", err)
	}
	return &Stream{conn: conn}, nil
}

// Recv blocks for the next envelope.
func (s *Stream) Recv() (Envelope, error) {
	var env Envelope
	if err := s.conn.ReadJSON(&env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Send posts a message into the room's current session over the socket.
func (s *Stream) Send(content string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(clientFrame{Type: EnvelopeMessage, Data: clientFrameData{Content: content}})
}

func (s *Stream) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	s.writeMu.Unlock()
	return s.conn.Close()
}

// IsClosedNormally reports whether err is the server ending the stream on purpose,
// for example because the room was deleted.
func IsClosedNormally(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}

// Watch follows a room until ctx ends or the server closes the stream. It
// subscribes before fetching history so nothing committed in between is lost,
// and calls fn for every transcript change in order.
func (c *Client) Watch(ctx context.Context, roomID string, fn func(Update)) error {
	stream, err := c.Dial(ctx, roomID)
	if err != nil {
		return err
	}
	defer stream.Close()

	frames := make(chan Envelope, 256)
	errc := make(chan error, 1)
	go func() {
		defer close(frames)
		for {
			env, err := stream.Recv()
			if err != nil {
				errc <- err
				return
			}
			select {
			case frames <- env:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	tl := NewTimeline()
	if err := c.catchUp(ctx, roomID, tl, fn); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-frames:
			if !ok {
				err := <-errc
				if IsClosedNormally(err) || errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			u, err := tl.Apply(env)
			if err != nil {
				return err
			}
			switch u.Kind {
			case UpdateDuplicate:
			case UpdateGap:
				if err := c.catchUp(ctx, roomID, tl, fn); err != nil {
					return err
				}
			case UpdateReset:
				fn(u)
				if err := c.catchUp(ctx, roomID, tl, fn); err != nil {
					return err
				}
			default:
				fn(u)
			}
		}
	}
}

func (c *Client) catchUp(ctx context.Context, roomID string, tl *Timeline, fn func(Update)) error {
	res, err := c.FetchAll(ctx, roomID, tl.SessionID(), tl.LastID())
	if err != nil {
		return err
	}
	before := tl.SessionID()
	appended, gap := tl.Merge(res)
	if before != "" && tl.SessionID() != before {
		fn(Update{Kind: UpdateReset})
	}
	for i := range appended {
		fn(Update{Kind: UpdateAppended, Message: &appended[i]})
	}
	if gap {
		return fmt.Errorf("transcript of session %s has a gap after message %d", tl.SessionID(), tl.LastID())
	}
	return nil
}
