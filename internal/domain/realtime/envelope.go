package realtime

import "context"

// EnvelopeType tags every frame pushed to room subscribers.
type EnvelopeType string

const (
	TypeMessage EnvelopeType = "message"
	TypeStatus  EnvelopeType = "status"
	TypeError   EnvelopeType = "error"
)

// Envelope is the unit of realtime delivery: {"type": ..., "data": {...}}.
type Envelope struct {
	Type EnvelopeType `json:"type"`
	Data any          `json:"data"`
}

// ErrorData is the payload of an error envelope.
type ErrorData struct {
	RoomID  string `json:"room_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
	RoleID  string `json:"role_id,omitempty"`
}

// Error codes carried in ErrorData.
const (
	CodeTurnFailed     = "turn_failed"
	CodeProviderFailed = "provider_failed"
	CodeInvalidFrame   = "invalid_frame"
	CodeAppendRejected = "append_rejected"
)

// NewError builds an error envelope.
func NewError(roomID, code, message string) Envelope {
	return Envelope{Type: TypeError, Data: ErrorData{RoomID: roomID, Code: code, Message: message}}
}

// Publisher fans envelopes out to every subscriber of a room, across instances when relayed.
type Publisher interface {
	Publish(ctx context.Context, roomID string, env Envelope)
	// CloseRoom disconnects every subscriber of the room.
	CloseRoom(ctx context.Context, roomID string)
}
