package main

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/courserev/pkg/config"
	"github.com/platinummonkey/courserev/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLimits(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		limits, err := buildLimits(config.RateLimitConfig{Enabled: false, Default: "1/hour"}, nil)
		require.NoError(t, err)
		assert.Nil(t, limits)
	})

	t.Run("in memory", func(t *testing.T) {
		limits, err := buildLimits(config.RateLimitConfig{
			Enabled:    true,
			Default:    "100/hour",
			Users:      "40/day",
			TrustProxy: true,
		}, nil)
		require.NoError(t, err)
		assert.IsType(t, &middleware.RateLimiter{}, limits.Default)
		assert.IsType(t, &middleware.RateLimiter{}, limits.Users)
		assert.Nil(t, limits.Writes)
		assert.True(t, limits.TrustProxy)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		limits, err := buildLimits(config.RateLimitConfig{Enabled: true, Writes: "5/minute"}, client)
		require.NoError(t, err)
		assert.IsType(t, &middleware.DistributedRateLimiter{}, limits.Writes)
	})

	t.Run("invalid rate", func(t *testing.T) {
		_, err := buildLimits(config.RateLimitConfig{Enabled: true, Users: "lots"}, nil)
		assert.ErrorContains(t, err, "invalid users rate limit")
	})
}
