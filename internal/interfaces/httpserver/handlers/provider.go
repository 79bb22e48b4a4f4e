package handlers

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/arena-server/internal/domain/agent"
	"github.com/janhq/arena-server/internal/domain/chat"
	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/role"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/domain/session"
	"github.com/janhq/arena-server/internal/domain/user"
	"github.com/janhq/arena-server/internal/infrastructure/auth"
)

// Services groups the domain services the handlers expose.
type Services struct {
	Agents   agent.Service
	Roles    role.Service
	Rooms    room.Service
	Sessions session.Manager
	Messages message.Service
	Chats    chat.Service
	Users    user.Service
	Issuer   *auth.Issuer
	Hub      Subscriber
}

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Agent    *AgentHandler
	Role     *RoleHandler
	Room     *RoomHandler
	Chat     *ChatHandler
	Auth     *AuthHandler
	Realtime *RealtimeHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(svc Services, realtimeCfg RealtimeConfig, log zerolog.Logger) *Provider {
	return &Provider{
		Agent:    NewAgentHandler(svc.Agents, log),
		Role:     NewRoleHandler(svc.Roles, log),
		Room:     NewRoomHandler(svc.Rooms, svc.Sessions, svc.Messages, log),
		Chat:     NewChatHandler(svc.Chats, log),
		Auth:     NewAuthHandler(svc.Users, svc.Issuer, log),
		Realtime: NewRealtimeHandler(svc.Rooms, svc.Messages, svc.Hub, realtimeCfg, log),
	}
}

var HandlerProvider = wire.NewSet(NewProvider)
