package middleware

import (
	"net/http"

	"ptaconnect/models"

	"github.com/gin-gonic/gin"
)

var roleRank = map[string]int{
	models.RoleMember: 0,
	models.RoleBoard:  1,
	models.RoleAdmin:  2,
}

// RequireRole rejects authenticated members below the minimum role with 403
// and the given message. Runs after JWTAuthMiddleware.
func RequireRole(minRole, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, ok := c.Get("memberRole")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role, _ := roleVal.(string)
		if roleRank[role] < roleRank[minRole] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

// CronAuthMiddleware gates scheduled maintenance endpoints behind the shared
// cron secret.
func CronAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" || c.GetHeader("X-Cron-Secret") != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
