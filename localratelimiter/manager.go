package localratelimiter

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute
	idleTimeout     = time.Minute
)

// RateLimiter struct to hold limiter information and related methods
type RateLimiter struct {
	clientLimiters map[string]*limiterEntry
	mutex          sync.Mutex
	limit          rate.Limit
	burst          int
	now            func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests per client
// IP with the given burst. A non-positive rate disables limiting. Idle
// entries are dropped until ctx is done.
func NewRateLimiter(ctx context.Context, perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		clientLimiters: make(map[string]*limiterEntry),
		limit:          rate.Limit(perSecond),
		burst:          burst,
		now:            time.Now,
	}
	if rl.enabled() {
		go rl.cleanupOldLimiters(ctx)
	}
	return rl
}

func (rl *RateLimiter) enabled() bool {
	return rl.limit > 0
}

// RateLimiterMiddleware returns a gin.HandlerFunc that enforces rate limiting
func (rl *RateLimiter) RateLimiterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled() {
			c.Next()
			return
		}

		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) Allow(clientId string) bool {
	rl.mutex.Lock()
	entry := rl.getLimiter(clientId)
	rl.mutex.Unlock()
	return entry.limiter.AllowN(rl.now(), 1)
}

// getLimiter must be called with the mutex held.
func (rl *RateLimiter) getLimiter(key string) *limiterEntry {
	if entry, exists := rl.clientLimiters[key]; exists {
		entry.lastSeen = rl.now()
		return entry
	}

	entry := &limiterEntry{
		limiter:  rate.NewLimiter(rl.limit, rl.burst),
		lastSeen: rl.now(),
	}
	rl.clientLimiters[key] = entry

	return entry
}

func (rl *RateLimiter) cleanupOldLimiters(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	for key, entry := range rl.clientLimiters {
		if rl.now().Sub(entry.lastSeen) > idleTimeout {
			delete(rl.clientLimiters, key)
		}
	}
}
