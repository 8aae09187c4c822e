package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleLimiterTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter with background cleanup of idle
// clients. Call Stop() on shutdown.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		stop:    make(chan struct{}),
	}
	go rl.cleanup(cleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit returns middleware that allows perMinute requests per IP on average,
// with bursts of up to burst requests. burst <= 0 means perMinute.
func (rl *RateLimiter) Limit(perMinute, burst int) Middleware {
	if burst <= 0 {
		burst = perMinute
	}
	every := rate.Every(time.Minute / time.Duration(perMinute))
	retryAfter := strconv.Itoa(int(60/perMinute) + 1)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.limiter(clientIP(r), every, burst).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) limiter(key string, every rate.Limit, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(every, burst)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, c := range rl.clients {
				if now.Sub(c.lastSeen) > idleLimiterTTL {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
