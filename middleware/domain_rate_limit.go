package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"ptaconnect/services/ratelimit"

	"github.com/gin-gonic/gin"
)

// hashIP hashes an IP before it becomes a rate-limit key, so raw addresses
// never sit in the store.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

// DomainRateLimit enforces a per-endpoint budget against both the
// authenticated member and the client IP. Either limit tripping rejects the
// request with 429 and a Retry-After header.
func DomainRateLimit(limiter *ratelimit.Limiter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		identifiers := []string{"ip:" + hashIP(getClientIP(c))}
		if memberID, ok := c.Get("memberID"); ok {
			if id, ok := memberID.(string); ok && id != "" {
				identifiers = append(identifiers, "user:"+id)
			}
		}

		for _, identifier := range identifiers {
			result := limiter.Check(ctx, identifier, maxRequests, window)
			if result.Allowed {
				continue
			}
			retryAfter := int(time.Until(result.ResetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Try again later.",
			})
			return
		}
		c.Next()
	}
}
