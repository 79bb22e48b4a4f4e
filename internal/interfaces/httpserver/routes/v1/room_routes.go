package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

func registerRoomRoutes(router gin.IRoutes, handler *handlers.RoomHandler) {
	router.GET("/rooms", handler.List)
	router.POST("/rooms", handler.Create)
	router.GET("/rooms/:id", handler.Get)
	router.PATCH("/rooms/:id", handler.Update)
	router.DELETE("/rooms/:id", handler.Delete)

	// lifecycle
	router.POST("/rooms/:id/join", handler.Join)
	router.POST("/rooms/:id/start", handler.Start)
	router.POST("/rooms/:id/stop", handler.Stop)
	router.POST("/rooms/:id/restart", handler.Restart)
	router.POST("/rooms/:id/finish", handler.Finish)
	router.GET("/rooms/:id/sessions", handler.Sessions)

	router.GET("/rooms/:id/messages", handler.Messages)
	router.POST("/rooms/:id/messages", handler.PostMessage)
}

func registerRealtimeRoutes(router gin.IRoutes, handler *handlers.RealtimeHandler) {
	router.GET("/ws/rooms/:id", handler.Connect)
}
