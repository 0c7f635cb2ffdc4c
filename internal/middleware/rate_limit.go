package middleware

import (
	"sosmed/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// RateLimit rejects requests from a client address whose bucket is empty.
func RateLimit(limiter *ratelimit.IPLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow(c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}
		return c.Next()
	}
}
