package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket_Take(t *testing.T) {
	b := newBucket(10, 1.0)

	for i := 0; i < 10; i++ {
		allowed, _, _ := b.take()
		require.True(t, allowed, "request %d should pass the burst", i+1)
	}

	allowed, remaining, resetAt := b.take()
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.True(t, resetAt.After(time.Now()))
}

func TestBucket_Refill(t *testing.T) {
	b := newBucket(10, 1.0)
	for i := 0; i < 10; i++ {
		b.take()
	}

	time.Sleep(1100 * time.Millisecond)

	allowed, _, _ := b.take()
	assert.True(t, allowed, "one token should have refilled")
	allowed, _, _ = b.take()
	assert.False(t, allowed, "refilled token already spent")
}

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/test", http.MethodGet)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/test", http.MethodGet)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.5": true},
		Blacklist:     map[string]bool{"10.0.0.6": true},
	})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("10.0.0.5", "/test", http.MethodGet)
		require.True(t, allowed, "whitelisted client is never limited")
	}

	allowed, _ := l.Allow("10.0.0.6", "/test", http.MethodGet)
	assert.False(t, allowed, "blacklisted client is always denied")
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/test", http.MethodGet)
		require.True(t, allowed)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/match/batch", Method: http.MethodPost, Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("127.0.0.1", "/api/match/batch", http.MethodPost)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, _ := l.Allow("127.0.0.1", "/api/match/batch", http.MethodPost)
	assert.False(t, allowed)

	// Unconfigured endpoints fall back to the default budget
	allowed, info := l.Allow("127.0.0.1", "/other", http.MethodGet)
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.Allow("127.0.0.1", "/test", http.MethodGet); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_Reap(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		l.Allow(fmt.Sprintf("10.1.0.%d", i+1), "/test", http.MethodGet)
	}
	l.mu.RLock()
	count := len(l.buckets)
	l.mu.RUnlock()
	require.Equal(t, 10, count)

	// A future cutoff makes every bucket idle
	l.reap(time.Now().Add(time.Second))

	l.mu.RLock()
	count = len(l.buckets)
	l.mu.RUnlock()
	assert.Zero(t, count)

	// Reaped clients start over with a fresh budget
	allowed, info := l.Allow("10.1.0.1", "/test", http.MethodGet)
	assert.True(t, allowed)
	assert.Equal(t, 9, info.Remaining)
}

func TestLimiter_Burst(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 5},
		},
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("127.0.0.1", "/burst", http.MethodPost)
		require.True(t, allowed, "burst request %d", i+1)
	}

	allowed, _ := l.Allow("127.0.0.1", "/burst", http.MethodPost)
	assert.False(t, allowed, "burst capacity caps immediate requests below the limit")
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("127.0.0.1", "/test", http.MethodGet)
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint_Defaults(t *testing.T) {
	configs := DefaultEndpointConfigs()

	health := MatchEndpoint("/health", http.MethodGet, configs)
	require.NotNil(t, health)
	assert.Zero(t, health.Limit, "health check is unlimited")

	login := MatchEndpoint("/api/auth/login", http.MethodPost, configs)
	require.NotNil(t, login)
	assert.Equal(t, 10, login.Limit)

	// Prefix config covers every interview POST route
	followUp := MatchEndpoint("/api/interview/follow-up", http.MethodPost, configs)
	require.NotNil(t, followUp)
	assert.Equal(t, 60, followUp.Limit)

	// Plain reads have no config and fall back to the default limit
	assert.Nil(t, MatchEndpoint("/api/resume/list", http.MethodGet, configs))
}
