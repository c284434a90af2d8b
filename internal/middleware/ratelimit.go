package middleware

import (
	"net/http"
	"sync"
	"time"
)

// Limiter is a fixed-window per-client rate limiter. It guards the
// upload endpoint, where every request can fan out into external
// quotation lookups.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*clientWindow
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	requestsPerMinute int
	cleanupInterval   time.Duration
}

type clientWindow struct {
	windowStart time.Time
	requests    int
}

// LimiterConfig holds rate limiter configuration.
type LimiterConfig struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultLimiterConfig returns sensible defaults.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		RequestsPerMinute: 30,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a rate limiter and starts its cleanup loop.
func NewLimiter(config LimiterConfig) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config = DefaultLimiterConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	l := &Limiter{
		clients:           make(map[string]*clientWindow),
		stopCleanup:       make(chan struct{}),
		requestsPerMinute: config.RequestsPerMinute,
		cleanupInterval:   config.CleanupInterval,
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from the given client fits in the
// current window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	client, ok := l.clients[clientIP]
	if !ok || now.Sub(client.windowStart) > time.Minute {
		l.clients[clientIP] = &clientWindow{windowStart: now, requests: 1}
		return true
	}

	client.requests++
	return client.requests <= l.requestsPerMinute
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeStale()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *Limiter) removeStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range l.clients {
		if client.windowStart.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop shuts down the cleanup goroutine.
func (l *Limiter) Stop() {
	l.shutdownOnce.Do(func() {
		close(l.stopCleanup)
	})
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// hint. onLimit, when set, renders the rejection instead.
func (l *Limiter) Middleware(onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ClientIP(r)) {
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Limite de requisições excedido. Tente novamente em instantes.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
