package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/arena-server/internal/domain/access"
	"github.com/janhq/arena-server/internal/infrastructure/auth"
)

// userID returns the authenticated subject, or the anonymous owner when auth is off.
func userID(c *gin.Context) string {
	if id := c.GetString(auth.ContextUserID); id != "" {
		return id
	}
	return access.AnonymousUser
}

func displayName(c *gin.Context) string {
	if p, ok := auth.PrincipalFrom(c); ok && p.Username != "" {
		return p.Username
	}
	return ""
}
