package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves a Zap logger from the Gin context or falls back to the
// global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}

// memberIDFromContext pulls the authenticated member ID set by the auth
// middleware. An empty string means the request never passed authentication.
func memberIDFromContext(c *gin.Context) string {
	if v, exists := c.Get("memberID"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
