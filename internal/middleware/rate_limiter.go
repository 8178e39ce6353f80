package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	MsgTooManyRequests     = "Too many requests from this IP, please try again later."
	MsgTooManyAuthAttempts = "Too many authentication attempts, please try again later."
)

// RateLimitConfig describes one fixed-window limiter.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
	// Prefix namespaces the per-IP counters so limiters can share Storage.
	Prefix  string
	Message string
	// Storage holds the counters. Nil keeps them in process memory.
	Storage fiber.Storage
}

// RateLimiter returns a fixed-window limiter keyed by client IP.
func RateLimiter(cfg RateLimitConfig) fiber.Handler {
	message := cfg.Message
	if message == "" {
		message = MsgTooManyRequests
	}

	return limiter.New(limiter.Config{
		Max:               cfg.Max,
		Expiration:        cfg.Window,
		Storage:           cfg.Storage,
		LimiterMiddleware: limiter.FixedWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return cfg.Prefix + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			// the limiter sets Retry-After in seconds before calling us
			retryAfter, err := strconv.Atoi(c.GetRespHeader(fiber.HeaderRetryAfter))
			if err != nil {
				retryAfter = int(cfg.Window.Seconds())
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":     "error",
				"message":    message,
				"retryAfter": retryAfter,
			})
		},
	})
}
