package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter *rate.Limiter
	start   time.Time
}

// RateLimiter admits at most maxRequests per client IP in each fixed window.
// Every window starts with a full bucket of maxRequests tokens that refills at
// one token per window, so no token is regained before the window resets.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*limiterEntry
	maxRequests int
	window      time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing maxRequests per window.
func NewRateLimiter(window time.Duration, maxRequests int) *RateLimiter {
	return &RateLimiter{
		visitors:    map[string]*limiterEntry{},
		maxRequests: maxRequests,
		window:      window,
		lastSweep:   time.Now(),
		now:         time.Now,
	}
}

// Allow reports whether a request from ip may proceed, how many requests
// remain in the current window and when that window resets.
func (l *RateLimiter) Allow(ip string) (bool, int, time.Time) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	le, ok := l.visitors[ip]
	if !ok || !now.Before(le.start.Add(l.window)) {
		le = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(l.window), l.maxRequests),
			start:   now,
		}
		l.visitors[ip] = le
	}

	allowed := le.limiter.AllowN(now, 1)
	remaining := int(math.Floor(le.limiter.TokensAt(now)))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, le.start.Add(l.window)
}

// sweep drops visitors whose window has ended.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	for ip, le := range l.visitors {
		if !now.Before(le.start.Add(l.window)) {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// Middleware answers 429 once the caller has used up the current window.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, reset := l.Allow(c.ClientIP())

		resetIn := int(math.Ceil(reset.Sub(l.now()).Seconds()))
		if resetIn < 0 {
			resetIn = 0
		}
		c.Header("RateLimit-Limit", strconv.Itoa(l.maxRequests))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(resetIn))

		if !allowed {
			apierrors.TooManyRequests(c, "")
			return
		}
		c.Next()
	}
}
