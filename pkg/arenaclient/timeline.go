package arenaclient

import (
	"encoding/json"
	"fmt"
	"sync"
)

// UpdateKind tells a Timeline consumer what an incoming frame did.
type UpdateKind int

const (
	// UpdateAppended carries a message that extends the transcript.
	UpdateAppended UpdateKind = iota
	// UpdateDuplicate is a message already in the transcript; nothing changed.
	UpdateDuplicate
	// UpdateGap means messages were missed; refetch after LastID before trusting the transcript.
	UpdateGap
	// UpdateReset means the room moved to another session; the transcript was cleared.
	UpdateReset
	UpdateStatus
	UpdateError
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateAppended:
		return "appended"
	case UpdateDuplicate:
		return "duplicate"
	case UpdateGap:
		return "gap"
	case UpdateReset:
		return "reset"
	case UpdateStatus:
		return "status"
	case UpdateError:
		return "error"
	default:
		return fmt.Sprintf("update(%d)", int(k))
	}
}

// Update is the outcome of applying one envelope.
type Update struct {
	Kind    UpdateKind
	Message *Message
	Status  *RoomStatus
	Error   *StreamError
}

// Timeline merges REST history with live room envelopes into one ordered,
// duplicate free transcript of a single session.
type Timeline struct {
	mu        sync.Mutex
	sessionID string
	lastID    int64
	messages  []Message
}

func NewTimeline() *Timeline {
	return &Timeline{messages: []Message{}}
}

func (t *Timeline) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// LastID is the highest contiguous message id held.
func (t *Timeline) LastID() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastID
}

// Messages returns a copy of the transcript in id order.
func (t *Timeline) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Merge folds a fetched page into the transcript. It returns the messages that
// were new and whether the page skipped ids, in which case the caller should
// fetch again after LastID.
func (t *Timeline) Merge(res *FetchResult) (appended []Message, gap bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if res.SessionID != "" && res.SessionID != t.sessionID {
		t.resetLocked(res.SessionID)
	}
	for _, m := range res.Messages {
		if m.SessionID != "" && m.SessionID != t.sessionID {
			continue
		}
		switch {
		case m.ID <= t.lastID:
		case m.ID == t.lastID+1:
			t.appendLocked(m)
			appended = append(appended, m)
		default:
			return appended, true
		}
	}
	return appended, false
}

// Apply folds one live envelope into the transcript.
func (t *Timeline) Apply(env Envelope) (Update, error) {
	switch env.Type {
	case EnvelopeMessage:
		var m Message
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return Update{}, fmt.Errorf("decode message envelope: %w", err)
		}
		return t.applyMessage(m), nil
	case EnvelopeStatus:
		var st RoomStatus
		if err := json.Unmarshal(env.Data, &st); err != nil {
			return Update{}, fmt.Errorf("decode status envelope: %w", err)
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		if st.SessionID != "" && st.SessionID != t.sessionID {
			t.resetLocked(st.SessionID)
			return Update{Kind: UpdateReset, Status: &st}, nil
		}
		return Update{Kind: UpdateStatus, Status: &st}, nil
	case EnvelopeError:
		var se StreamError
		if err := json.Unmarshal(env.Data, &se); err != nil {
			return Update{}, fmt.Errorf("decode error envelope: %w", err)
		}
		return Update{Kind: UpdateError, Error: &se}, nil
	default:
		return Update{}, fmt.Errorf("unknown envelope type %q", env.Type)
	}
}

func (t *Timeline) applyMessage(m Message) Update {
	t.mu.Lock()
	defer t.mu.Unlock()

	if m.SessionID != t.sessionID {
		if t.sessionID != "" || t.lastID > 0 {
			// the status envelope announcing the new session was missed
			t.resetLocked(m.SessionID)
			if m.ID != 1 {
				return Update{Kind: UpdateGap, Message: &m}
			}
			t.appendLocked(m)
			return Update{Kind: UpdateReset, Message: &m}
		}
		t.sessionID = m.SessionID
	}

	switch {
	case m.ID <= t.lastID:
		return Update{Kind: UpdateDuplicate, Message: &m}
	case m.ID == t.lastID+1:
		t.appendLocked(m)
		return Update{Kind: UpdateAppended, Message: &m}
	default:
		return Update{Kind: UpdateGap, Message: &m}
	}
}

func (t *Timeline) appendLocked(m Message) {
	t.messages = append(t.messages, m)
	t.lastID = m.ID
}

func (t *Timeline) resetLocked(sessionID string) {
	t.sessionID = sessionID
	t.lastID = 0
	t.messages = []Message{}
}
