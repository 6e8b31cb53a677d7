package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ptaconnect/services/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rateLimitedRouter(maxRequests int, memberID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), zap.NewNop())
	router := gin.New()
	router.POST("/limited",
		func(c *gin.Context) {
			if memberID != "" {
				c.Set("memberID", memberID)
			}
			c.Next()
		},
		DomainRateLimit(limiter, maxRequests, time.Minute),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/limited", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDomainRateLimitBlocksAfterBudget(t *testing.T) {
	t.Parallel()
	router := rateLimitedRouter(2, "")

	assert.Equal(t, http.StatusOK, hit(router, "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, hit(router, "203.0.113.7").Code)

	w := hit(router, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests. Try again later."}`, w.Body.String())

	retryAfter := w.Header().Get("Retry-After")
	require.NotEmpty(t, retryAfter)
	assert.NotEqual(t, "0", retryAfter)
}

func TestDomainRateLimitIsolatesClientIPs(t *testing.T) {
	t.Parallel()
	router := rateLimitedRouter(1, "")

	assert.Equal(t, http.StatusOK, hit(router, "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(router, "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, hit(router, "203.0.113.8").Code, "a different client keeps its own budget")
}

func TestDomainRateLimitCountsAuthenticatedMemberAcrossIPs(t *testing.T) {
	t.Parallel()
	router := rateLimitedRouter(2, "member-1")

	// The per-member budget follows the account even when the IP changes.
	assert.Equal(t, http.StatusOK, hit(router, "203.0.113.1").Code)
	assert.Equal(t, http.StatusOK, hit(router, "203.0.113.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(router, "203.0.113.3").Code)
}
