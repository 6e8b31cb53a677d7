package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	tokenCachePrefix = "token:"
	// Short enough that a cached token is never honored long past its own
	// expiry; revocation stays immediate through the tombstone check below.
	tokenCacheTTL = 5 * time.Minute
)

// JWTAuthMiddleware authenticates a member from a Bearer token. The token
// hash is cached in Redis so repeat requests skip signature validation; a
// cache failure falls back to signature-only validation rather than rejecting
// the request.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		memberID, role, ok := cachedIdentity(c.Request.Context(), tokenString)
		if !ok {
			var err error
			memberID, role, err = utils.ParseToken(tokenString)
			if err != nil || memberID == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			cacheIdentity(c.Request.Context(), tokenString, memberID, role)
		}

		// Revocation check: a revoked member has a tombstone key in the auth
		// cache. Cache trouble is logged and ignored.
		ctx := context.Background()
		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			revokedKey := utils.AuthCachePrefix + "revoked:" + memberID
			if _, err := authCache.Get(ctx, revokedKey).Result(); err == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			} else if err != redis.Nil {
				zap.L().Warn("auth cache unavailable, skipping revocation check", zap.Error(err))
			}
		}

		c.Set("memberID", memberID)
		c.Set("memberRole", role)
		c.Next()
	}
}

// RevokeMemberTokens drops a tombstone so existing tokens for the member stop
// working until they expire.
func RevokeMemberTokens(memberID string, tokenLifetime time.Duration) error {
	ctx := context.Background()
	key := utils.AuthCachePrefix + "revoked:" + memberID
	return utils.GetAuthCacheClient().Set(ctx, key, "1", tokenLifetime).Err()
}

// cachedIdentity looks up a previously validated token by its hash. Only the
// hash ever touches Redis; raw tokens stay out of the store.
func cachedIdentity(ctx context.Context, token string) (string, string, bool) {
	cache := utils.GetCacheClient()
	if cache == nil {
		return "", "", false
	}
	val, err := cache.Get(ctx, tokenCachePrefix+utils.HashToken(token)).Result()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("token cache unavailable, validating signature", zap.Error(err))
		}
		return "", "", false
	}
	parts := strings.SplitN(val, "|", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// cacheIdentity stores a validated token's identity under its hash. Failures
// only cost the next request a signature check.
func cacheIdentity(ctx context.Context, token, memberID, role string) {
	cache := utils.GetCacheClient()
	if cache == nil {
		return
	}
	key := tokenCachePrefix + utils.HashToken(token)
	if err := cache.Set(ctx, key, memberID+"|"+role, tokenCacheTTL).Err(); err != nil {
		zap.L().Warn("failed to cache token identity", zap.Error(err))
	}
}
