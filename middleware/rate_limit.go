package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/zeno/dashboard/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 5 * time.Minute
	limiterPruneInterval = 3 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rate     rate.Limit
	burst    int
	logger   *zap.Logger
	now      func() time.Time
}

// NewRateLimiter creates a per-IP limiter allowing perSecond requests with the given burst
func NewRateLimiter(perSecond float64, burst int, logger *zap.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		logger:   logger,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if l, ok := rl.limiters[ip]; ok {
		l.lastSeen = now
		return l.limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[ip] = &ipLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// Prune drops limiters idle for longer than limiterIdleTTL and returns how many were removed
func (rl *RateLimiter) Prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-limiterIdleTTL)
	removed := 0
	for ip, l := range rl.limiters {
		if l.lastSeen.Before(cutoff) {
			delete(rl.limiters, ip)
			removed++
		}
	}
	return removed
}

// Run prunes idle limiters until ctx is done
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Prune(); n > 0 {
				rl.logger.Debug("pruned idle rate limiters", zap.Int("removed", n))
			}
		}
	}
}

// Limit rejects requests over the limit with 429 and a Retry-After header
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.getLimiter(ip).AllowN(rl.now(), 1) {
			retryAfter := 1
			if rl.rate > 0 && float64(rl.rate) < 1 {
				retryAfter = int(1 / float64(rl.rate))
			}
			rl.logger.Warn("request blocked by rate limit",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("ip", ip),
				zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			_ = utils.WriteTooManyRequests(w, "Too many sign-in attempts", map[string]interface{}{
				"retry_after_seconds": retryAfter,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP expects chi's RealIP to have run; RemoteAddr may still carry a port
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
