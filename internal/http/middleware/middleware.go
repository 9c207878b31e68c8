package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	memoryStorage "github.com/gofiber/storage/memory/v2"
	redisStorage "github.com/gofiber/storage/redis/v2"
	"github.com/rs/xid"

	"nameplate/internal/auth"
	"nameplate/internal/config"
	"nameplate/internal/domain"
	"nameplate/internal/infra/logging"
)

const apiKeyLocal = "api_key"

// RateLimitStore returns Redis-backed limiter storage, or memory storage when Redis
// is not configured or unreachable.
func RateLimitStore(cfg config.Config) (store fiber.Storage) {
	store = memoryStorage.New()
	if cfg.Cache.RedisHost == "" {
		return store
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Redis limiter store init panicked, falling back to memory", "panic", r)
		}
	}()
	store = redisStorage.New(redisStorage.Config{
		Addrs:    []string{cfg.Cache.RedisHost},
		Database: cfg.Cache.RateLimitDB,
	})
	logging.Info("Using Redis for rate limiting", "addr", cfg.Cache.RedisHost, "db", cfg.Cache.RateLimitDB)
	return store
}

// Limits applies per-key and per-client sliding window limits.
type Limits struct {
	store    fiber.Storage
	keys     *auth.Keys
	interval time.Duration

	mu       sync.RWMutex
	handlers map[int]fiber.Handler
}

func NewLimits(store fiber.Storage, keys *auth.Keys, interval time.Duration) *Limits {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Limits{store: store, keys: keys, interval: interval, handlers: make(map[int]fiber.Handler)}
}

func tooManyRequests(c *fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    fiber.StatusTooManyRequests,
			"message": "Too Many Requests",
		},
	})
}

// keyLimiter returns the cached limiter for limit, creating it on first use.
func (l *Limits) keyLimiter(limit int) fiber.Handler {
	l.mu.RLock()
	h, ok := l.handlers[limit]
	l.mu.RUnlock()
	if ok {
		return h
	}

	h = limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        l.interval,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           l.store,
		KeyGenerator: func(c *fiber.Ctx) string {
			key, _ := c.Locals(apiKeyLocal).(string)
			return "key:" + key
		},
		LimitReached: func(c *fiber.Ctx) error {
			logging.Warn("Rate limit exceeded", "api_key", maskKey(c), "path", c.Path())
			return tooManyRequests(c)
		},
	})

	l.mu.Lock()
	if existing, ok := l.handlers[limit]; ok {
		h = existing
	} else {
		l.handlers[limit] = h
	}
	l.mu.Unlock()
	return h
}

// PerKey limits authenticated requests by the rate limit stored with their key.
func (l *Limits) PerKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, ok := c.Locals(apiKeyLocal).(string)
		if !ok || key == "" || l.keys == nil {
			return c.Next()
		}
		limit := l.keys.RateLimit(key)
		if limit <= 0 {
			return c.Next()
		}
		return l.keyLimiter(limit)(c)
	}
}

func clientKey(c *fiber.Ctx) string {
	sum := sha256.Sum256([]byte(c.IP() + c.Get(fiber.HeaderUserAgent)))
	return hex.EncodeToString(sum[:])
}

// PerClient limits anonymous requests by IP and user agent. Requests carrying an
// API key are left to PerKey.
func (l *Limits) PerClient(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	h := limiter.New(limiter.Config{
		Max:               max,
		Expiration:        l.interval,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           l.store,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "client:" + clientKey(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			logging.Warn("Rate limit exceeded", "client", clientKey(c), "path", c.Path())
			return tooManyRequests(c)
		},
	})
	return func(c *fiber.Ctx) error {
		if key, ok := c.Locals(apiKeyLocal).(string); ok && key != "" {
			return c.Next()
		}
		return h(c)
	}
}

func maskKey(c *fiber.Ctx) string {
	key, _ := c.Locals(apiKeyLocal).(string)
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}

// APIKey validates X-API-Key against keys. Requests without the header pass
// through anonymously.
func APIKey(keys *auth.Keys) fiber.Handler {
	return keyauth.New(keyauth.Config{
		KeyLookup:  "header:X-API-Key",
		ContextKey: apiKeyLocal,
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if err := keys.Validate(key); err != nil {
				return false, err
			}
			return true, nil
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || c.Get("X-API-Key") == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// keyauth may pass a nil error.
			status := fiber.StatusUnauthorized
			if err == nil {
				err = fiber.ErrUnauthorized
			}
			if errors.Is(err, domain.ErrTokenStoreNotReady) {
				status = fiber.StatusServiceUnavailable
			}
			return c.Status(status).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    status,
					"message": err.Error(),
				},
			})
		},
	})
}

// RequestLog logs every request after it was handled.
func RequestLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = c.GetRespHeader(fiber.HeaderXRequestID)
		}
		logging.Info("Incoming request",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}
}

// Register attaches the global middleware chain. keys is nil when API key auth is
// disabled.
func Register(app *fiber.App, cfg config.Config, keys *auth.Keys) {
	app.Use(cors.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/ops/health",
		ReadinessEndpoint: "/ops/ready",
		ReadinessProbe: func(*fiber.Ctx) bool {
			return keys == nil || keys.Ready()
		},
	}))

	app.Use(RequestLog())

	perClient := cfg.RateLimiter.EnableUserLimiter || cfg.RateLimiter.UserLimit > 0
	if keys == nil && !perClient {
		return
	}
	limits := NewLimits(RateLimitStore(cfg), keys, cfg.RateLimiter.Interval)
	if keys != nil {
		app.Use(APIKey(keys))
		app.Use(limits.PerKey())
	}
	if perClient {
		app.Use(limits.PerClient(cfg.RateLimiter.UserLimit))
	}
}
