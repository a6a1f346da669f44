package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserRateLimiterIsPerUser(t *testing.T) {
	l := NewUserRateLimiter(1, 2)
	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
	assert.True(t, l.Allow(2))
}

func TestUserRateLimiterDisabled(t *testing.T) {
	l := NewUserRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(1))
	}
	assert.Equal(t, 0, l.Len())
}

func TestUserRateLimiterEvictsIdleUsers(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewUserRateLimiter(60, 2)
	l.now = func() time.Time { return clock }

	for userID := uint(1); userID <= 50; userID++ {
		assert.True(t, l.Allow(userID))
	}
	assert.Equal(t, 50, l.Len())

	clock = clock.Add(l.idleTTL)
	assert.True(t, l.Allow(99))
	assert.Equal(t, 1, l.Len())
}

func TestUserRateLimiterKeepsActiveUsersThrottled(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewUserRateLimiter(1, 1)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow(1))
	clock = clock.Add(30 * time.Second)
	assert.False(t, l.Allow(1))
	clock = clock.Add(31 * time.Second)
	assert.True(t, l.Allow(1))
}
