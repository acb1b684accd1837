package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	bucketSweepEvery = 5 * time.Minute
	bucketIdleAfter  = 10 * time.Minute
)

// TokenBucket implements token bucket rate limiting
type TokenBucket struct {
	mu         sync.Mutex
	capacity   int
	tokens     int
	refillRate int // tokens per second
	lastRefill time.Time
	lastSeen   time.Time
}

func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: now,
		lastSeen:   now,
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.lastSeen = now
	if add := int(now.Sub(tb.lastRefill).Seconds() * float64(tb.refillRate)); add > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+add)
		tb.lastRefill = now
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) idleSince(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.lastSeen)
}

// RateLimiter keeps one bucket per user id or client host. Idle buckets are
// swept until ctx is done.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*TokenBucket
	capacity   int
	refillRate int
}

func NewRateLimiter(ctx context.Context, capacity, refillRate int) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*TokenBucket),
		capacity:   capacity,
		refillRate: refillRate,
	}
	go rl.sweep(ctx)
	return rl
}

func (rl *RateLimiter) bucket(key string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = NewTokenBucket(rl.capacity, rl.refillRate)
		rl.buckets[key] = b
	}
	return b
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.bucket(key).Allow()
}

// Len reports the number of live buckets.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(bucketSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if b.idleSince(now) > bucketIdleAfter {
			delete(rl.buckets, key)
		}
	}
}

// clientKey is the user id, or the remote host without its port.
func clientKey(r *http.Request) string {
	if uid := GetUserFromContext(r.Context()); uid != "" {
		return uid
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimitMiddleware limits requests per client. The sweeper stops with ctx.
// capacity: max tokens in bucket
// refillRate: tokens added per second
func RateLimitMiddleware(ctx context.Context, capacity, refillRate int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(ctx, capacity, refillRate)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
