package middleware

import (
	"testing"

	"ptaconnect/config"

	"github.com/stretchr/testify/assert"
)

// Limiters are cached per IP, so each case uses a fresh address. Mutates
// global config; not parallel.
func TestGetLimiterUsesConfiguredRate(t *testing.T) {
	saved := config.AppConfig
	t.Cleanup(func() { config.AppConfig = saved })

	config.AppConfig.MaxRequestsPerMin = 3
	limiter := limiterStore.getLimiter("198.51.100.10")
	assert.Equal(t, 3, limiter.Burst())

	// Unset config falls back to the default.
	config.AppConfig.MaxRequestsPerMin = 0
	limiter = limiterStore.getLimiter("198.51.100.11")
	assert.Equal(t, 100, limiter.Burst())
}
