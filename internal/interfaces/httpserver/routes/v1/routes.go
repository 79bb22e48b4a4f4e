package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	group := engine.Group("/v1")

	// register and token are the only unauthenticated endpoints
	registerPublicAuthRoutes(group, r.handlers.Auth)

	protected := group.Group("", authMiddleware)
	registerAuthRoutes(protected, r.handlers.Auth)
	registerAgentRoutes(protected, r.handlers.Agent)
	registerRoleRoutes(protected, r.handlers.Role)
	registerRoomRoutes(protected, r.handlers.Room)
	registerChatRoutes(protected, r.handlers.Chat)
	registerRealtimeRoutes(protected, r.handlers.Realtime)
}
