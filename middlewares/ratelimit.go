package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// localLimiterIdle is how long a fallback limiter entry may sit unused before
// a sweep reclaims it.
const localLimiterIdle = 10 * time.Minute

// limiterPool holds the per-key fallback limiters used when Redis is down.
// Idle entries are swept on access so the map stays bounded.
type limiterPool struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	limit     int
	window    time.Duration
	lastSweep time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLimiterPool(limit int, window time.Duration) *limiterPool {
	return &limiterPool{
		entries:   make(map[string]*limiterEntry),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastSweep) > p.window {
		p.sweep(now)
	}

	e, ok := p.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Every(p.window/time.Duration(p.limit)), p.limit)}
		p.entries[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// sweep drops entries not seen within the idle window. Caller holds the lock.
func (p *limiterPool) sweep(now time.Time) {
	for key, e := range p.entries {
		if now.Sub(e.lastSeen) > localLimiterIdle {
			delete(p.entries, key)
		}
	}
	p.lastSweep = now
}

// RateLimit limits a named action to limit requests per user per window.
// With Redis available the window is a shared INCR+EXPIRE counter; without
// it, a per-process token bucket approximates the same budget.
func RateLimit(rdb *redis.Client, name string, limit int, window time.Duration) gin.HandlerFunc {
	pool := newLimiterPool(limit, window)

	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			c.Next()
			return
		}
		key := "rate:" + name + ":" + userID

		if rdb != nil {
			ctx := c.Request.Context()
			count, err := rdb.Incr(ctx, key).Result()
			if err == nil {
				if count == 1 {
					rdb.Expire(ctx, key, window)
				}
				if count > int64(limit) {
					c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
					c.Abort()
					return
				}
				c.Next()
				return
			}
			// Redis failure falls through to the local limiter.
		}

		if !pool.get(key).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
