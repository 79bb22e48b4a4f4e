package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/arena-server/internal/interfaces/httpserver/handlers"
)

func registerPublicAuthRoutes(router gin.IRoutes, handler *handlers.AuthHandler) {
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/token", handler.Token)
}

func registerAuthRoutes(router gin.IRoutes, handler *handlers.AuthHandler) {
	router.GET("/auth/status", handler.Status)
}
