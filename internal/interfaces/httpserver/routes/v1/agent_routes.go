package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

func registerAgentRoutes(router gin.IRoutes, handler *handlers.AgentHandler) {
	router.GET("/agents", handler.List)
	router.POST("/agents", handler.Create)
	router.GET("/agents/:id", handler.Get)
	router.PATCH("/agents/:id", handler.Update)
	router.DELETE("/agents/:id", handler.Delete)
}

func registerRoleRoutes(router gin.IRoutes, handler *handlers.RoleHandler) {
	router.GET("/roles", handler.List)
	router.POST("/roles", handler.Create)
	router.GET("/roles/:id", handler.Get)
	router.PATCH("/roles/:id", handler.Update)
	router.DELETE("/roles/:id", handler.Delete)
}
