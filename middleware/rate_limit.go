package middleware

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
	// Store counts hits per key (defaults to an in-process store)
	Store RateLimitStore
}

// RateLimitStore counts hits for a key within a fixed window
type RateLimitStore interface {
	// Hit increments the counter for key and returns the count within the current window
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
}

// rateLimitEntry tracks request count and window expiration
type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryStore keeps counters in process. Counters are not shared between instances.
type MemoryStore struct {
	entries map[string]*rateLimitEntry
	mu      sync.Mutex
}

// NewMemoryStore creates an in-process store and starts its cleanup loop
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{entries: make(map[string]*rateLimitEntry)}
	go s.cleanup()
	return s
}

// Hit implements RateLimitStore
func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, exists := s.entries[key]
	if !exists || now.After(entry.expiresAt) {
		s.entries[key] = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		return 1, nil
	}
	entry.count++
	return entry.count, nil
}

// cleanup removes expired entries every minute
func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, entry := range s.entries {
			if now.After(entry.expiresAt) {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

// RedisStore shares counters between instances using INCR with EXPIRE
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store backed by client. Keys are namespaced by prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Hit implements RateLimitStore
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	redisKey := fmt.Sprintf("%s:%s", s.prefix, key)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit incr failed: %w", err)
	}
	// Set expiry only on first increment
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return int(count), fmt.Errorf("rate limit expire failed: %w", err)
		}
	}
	return int(count), nil
}

// RateLimiter is a per-endpoint rate limiter
type RateLimiter struct {
	config RateLimitConfig
	mu     sync.RWMutex
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}
	if config.Store == nil {
		config.Store = NewMemoryStore()
	}

	return &RateLimiter{config: config}
}

// UseStore swaps the counter backend, e.g. to Redis once it is reachable
func (rl *RateLimiter) UseStore(store RateLimitStore) {
	if store == nil {
		return
	}
	rl.mu.Lock()
	rl.config.Store = store
	rl.mu.Unlock()
}

func (rl *RateLimiter) store() RateLimitStore {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.config.Store
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rl.config.KeyFunc(c)

			count, err := rl.store().Hit(c.Request().Context(), key, rl.config.Window)
			if err != nil {
				// A broken counter backend must not take the form down
				c.Logger().Warnf("[RATE_LIMIT] %v", err)
				return next(c)
			}

			if count > rl.config.Requests {
				if c.Request().Header.Get("HX-Request") == "true" {
					return c.HTML(http.StatusTooManyRequests, `<div class="form-status form-status--error" role="alert">`+html.EscapeString(rl.config.Message)+`</div>`)
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}

			return next(c)
		}
	}
}

// PublicFormRateLimiter limits lead form submissions to 10 per minute per IP
var PublicFormRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 10,
	Window:   1 * time.Minute,
	Message:  "Too many form submissions. Please wait before trying again.",
})
