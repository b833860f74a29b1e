package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's bucket survives without traffic.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

type rateLimiter struct {
	limiters  sync.Map // map[string]*limiterEntry
	rps       float64
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 5
	}
	l := &rateLimiter{rps: rps, burst: burst, idleTTL: limiterIdleTTL, now: time.Now}
	l.lastSweep.Store(l.now().UnixNano())
	return l
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now()
	l.maybeSweep(now)

	v, ok := l.limiters.Load(key)
	if !ok {
		entry := &limiterEntry{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		v, _ = l.limiters.LoadOrStore(key, entry)
	}

	entry := v.(*limiterEntry)
	entry.lastSeen.Store(now.UnixNano())
	return entry.limiter
}

// maybeSweep runs at most one sweep per idle period across all requests.
func (l *rateLimiter) maybeSweep(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	l.sweep(now)
}

// sweep drops buckets that have been idle longer than idleTTL.
func (l *rateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.idleTTL).UnixNano()
	l.limiters.Range(func(key, v any) bool {
		if v.(*limiterEntry).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
		}
		return true
	})
}

func (l *rateLimiter) size() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// middleware throttles each client IP. The requester header is unauthenticated
// and never used as a key.
func (l *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
