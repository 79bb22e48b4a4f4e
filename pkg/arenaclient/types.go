package arenaclient

import (
	"encoding/json"
	"time"
)

// Agent is an LLM backed participant template.
type Agent struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Provider     string    `json:"provider"`
	ModelName    string    `json:"model_name"`
	SystemPrompt string    `json:"system_prompt"`
	Temperature  float64   `json:"temperature"`
	HasAPIKey    bool      `json:"has_api_key"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AgentParams struct {
	Name         string   `json:"name,omitempty"`
	AvatarURL    string   `json:"avatar_url,omitempty"`
	Provider     string   `json:"provider,omitempty"`
	ModelName    string   `json:"model_name,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	APIKey       string   `json:"api_key,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
}

// Role is a persona played by an agent inside rooms.
type Role struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	AgentID        string    `json:"agent_id"`
	Name           string    `json:"name"`
	Gender         string    `json:"gender,omitempty"`
	Age            int       `json:"age,omitempty"`
	Profession     string    `json:"profession,omitempty"`
	Personality    string    `json:"personality,omitempty"`
	Aggressiveness float64   `json:"aggressiveness"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type RoleParams struct {
	AgentID        string   `json:"agent_id,omitempty"`
	Name           string   `json:"name,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Age            int      `json:"age,omitempty"`
	Profession     string   `json:"profession,omitempty"`
	Personality    string   `json:"personality,omitempty"`
	Aggressiveness *float64 `json:"aggressiveness,omitempty"`
}

// Room statuses.
const (
	StatusIdle     = "idle"
	StatusRunning  = "running"
	StatusStopped  = "stopped"
	StatusFinished = "finished"
)

type Room struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Topic         string    `json:"topic"`
	Mode          string    `json:"mode"`
	MaxRounds     int       `json:"max_rounds"`
	CurrentRounds int       `json:"current_rounds"`
	Status        string    `json:"status"`
	RoleIDs       []string  `json:"role_ids"`
	SessionID     *string   `json:"session_id"`
	LastError     string    `json:"last_error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type RoomParams struct {
	Name      string   `json:"name,omitempty"`
	Topic     string   `json:"topic,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	MaxRounds *int     `json:"max_rounds,omitempty"`
	RoleIDs   []string `json:"role_ids,omitempty"`
}

// Session is one run of a room.
type Session struct {
	ID                string     `json:"id"`
	RoomID            string     `json:"room_id"`
	Status            string     `json:"status"`
	TurnCursor        int        `json:"turn_cursor"`
	LastSpeakerRoleID string     `json:"last_speaker_role_id,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
}

// Message is one transcript entry. IDs are gap free within SessionID.
type Message struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	RoomID     string    `json:"room_id,omitempty"`
	SenderType string    `json:"sender_type"`
	RoleID     string    `json:"role_id,omitempty"`
	AgentID    string    `json:"agent_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	SenderName string    `json:"sender_name"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// FetchResult is one page of a transcript.
type FetchResult struct {
	SessionID string    `json:"session_id,omitempty"`
	Messages  []Message `json:"messages"`
	HasMore   bool      `json:"has_more"`
}

// MessagesQuery selects a transcript window. Zero values use server defaults.
type MessagesQuery struct {
	SessionID string
	AfterID   int64
	Limit     int
}

type ChatSession struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	AgentID   string    `json:"agent_id"`
	RoleID    string    `json:"role_id,omitempty"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatSessionParams struct {
	AgentID string `json:"agent_id"`
	RoleID  string `json:"role_id,omitempty"`
	Title   string `json:"title,omitempty"`
}

type CompletionParams struct {
	SessionID string `json:"session_id,omitempty"`
	AgentID   string `json:"agent_id"`
	RoleID    string `json:"role_id,omitempty"`
	Message   string `json:"message"`
	Stream    bool   `json:"stream"`
}

type CompletionResult struct {
	SessionID   string   `json:"session_id"`
	UserMessage *Message `json:"user_message"`
	Reply       *Message `json:"reply"`
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterParams struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email,omitempty"`
	InvitationCode string `json:"invitation_code,omitempty"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

type AuthStatus struct {
	Authenticated bool       `json:"authenticated"`
	UserID        string     `json:"user_id"`
	Username      string     `json:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type list[T any] struct {
	Data []T `json:"data"`
}

// Realtime envelope types.
const (
	EnvelopeMessage = "message"
	EnvelopeStatus  = "status"
	EnvelopeError   = "error"
)

// Envelope is one frame received from a room stream.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RoomStatus is the payload of a status envelope.
type RoomStatus struct {
	RoomID        string `json:"room_id"`
	Status        string `json:"status"`
	SessionID     string `json:"session_id,omitempty"`
	CurrentRounds int    `json:"current_rounds"`
	MaxRounds     int    `json:"max_rounds"`
	LastError     string `json:"last_error,omitempty"`
}

// StreamError is the payload of an error envelope.
type StreamError struct {
	RoomID  string `json:"room_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
	RoleID  string `json:"role_id,omitempty"`
}

type clientFrame struct {
	Type string          `json:"type"`
	Data clientFrameData `json:"data"`
}

type clientFrameData struct {
	Content string `json:"content"`
}
