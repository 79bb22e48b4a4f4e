package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.GET("/chat/sessions", handler.ListSessions)
	router.POST("/chat/sessions", handler.CreateSession)
	router.DELETE("/chat/sessions/:id", handler.DeleteSession)
	router.GET("/chat/sessions/:id/messages", handler.Messages)
	router.POST("/chat/completion", handler.Complete)
}
