package middleware

import (
	"net/http"
	"net/netip"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"moodlequiz/internal/util"
	"moodlequiz/pkg/response"
)

const (
	limiterSweepInterval = time.Minute
	limiterIdleTimeout   = 5 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu             sync.Mutex
	visitors       map[string]*visitor
	limit          rate.Limit
	burst          int
	trustedProxies []netip.Prefix
}

// NewRateLimiter allows perSecond requests per client with the given burst.
// Clients are keyed by remote address, or by X-Forwarded-For when the request
// comes through one of trustedProxies. Idle clients are forgotten; the sweep
// stops when done is closed.
func NewRateLimiter(perSecond float64, burst int, trustedProxies []netip.Prefix, done <-chan struct{}) *RateLimiter {
	rl := &RateLimiter{
		visitors:       make(map[string]*visitor),
		limit:          rate.Limit(perSecond),
		burst:          burst,
		trustedProxies: trustedProxies,
	}
	go rl.sweep(done)
	return rl
}

func (rl *RateLimiter) sweep(done <-chan struct{}) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > limiterIdleTimeout {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(util.GetClientIPAddress(r, rl.trustedProxies)) {
			response.ErrorWithData(w, http.StatusTooManyRequests, "rate_limited", "Too Many Requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
