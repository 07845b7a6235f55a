// file: internal/server/middleware/ratelimit.go
// version: 2.0.0
// guid: 1331705a-85cb-4158-92f5-5ce203d8a0e7

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL       = 15 * time.Minute
	defaultSweepInterval = time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands every client IP its own token bucket. Buckets idle for
// longer than idleTTL are swept at most once per sweepInterval.
type IPRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time

	perSecond     rate.Limit
	burst         int
	retryAfter    int
	idleTTL       time.Duration
	sweepInterval time.Duration
	exempt        []string
	now           func() time.Time
}

// NewIPRateLimiter allows requestsPerMinute per client with the given burst.
// Values below 1 are raised to 1.
func NewIPRateLimiter(requestsPerMinute int, burst int) *IPRateLimiter {
	requestsPerMinute = max(requestsPerMinute, 1)
	return &IPRateLimiter{
		entries:       make(map[string]*limiterEntry),
		perSecond:     rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:         max(burst, 1),
		retryAfter:    int(math.Ceil(60.0 / float64(requestsPerMinute))),
		idleTTL:       defaultIdleTTL,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
}

// Exempt skips limiting for paths starting with any of prefixes.
func (r *IPRateLimiter) Exempt(prefixes ...string) *IPRateLimiter {
	r.exempt = append(r.exempt, prefixes...)
	return r
}

func (r *IPRateLimiter) isExempt(path string) bool {
	for _, p := range r.exempt {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// allow spends one token from ip's bucket.
func (r *IPRateLimiter) allow(ip string) bool {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) >= r.sweepInterval {
		for key, entry := range r.entries {
			if now.Sub(entry.lastSeen) > r.idleTTL {
				delete(r.entries, key)
			}
		}
		r.lastSweep = now
	}

	entry, ok := r.entries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(r.perSecond, r.burst)}
		r.entries[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// tracked returns how many client buckets are held.
func (r *IPRateLimiter) tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Middleware answers 429 with a Retry-After header once a client's bucket
// is empty.
func (r *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.isExempt(c.Request.URL.Path) {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !r.allow(ip) {
			log.Warn().
				Str("ip", ip).
				Str("path", c.Request.URL.Path).
				Str("request_id", GetRequestID(c)).
				Msg("rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(r.retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  "rate limit exceeded",
				"code":   "RATE_LIMITED",
				"status": http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}
