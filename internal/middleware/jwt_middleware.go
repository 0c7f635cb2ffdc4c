package middleware

import (
	"log"

	"sosmed/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie carrying the session token.
const CookieName = "jwt"

// Locals keys set by ProtectRoute.
const (
	UserKey   = "user"
	UserIDKey = "user_id"
)

// ProtectRoute resolves the session cookie to a user and stores it in Locals.
// A missing or invalid token is 401, a token for a vanished user is 404, and
// any store failure is 500.
func ProtectRoute(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authService.Authenticate(c.Cookies(CookieName))
		if err != nil {
			kind := services.KindOf(err)
			status := fiber.StatusInternalServerError
			switch kind {
			case services.KindUnauthenticated:
				status = fiber.StatusUnauthorized
			case services.KindNotFound:
				status = fiber.StatusNotFound
			default:
				log.Printf("Error in protectRoute middleware: %v", err)
			}
			return c.Status(status).JSON(fiber.Map{
				"error": services.MessageOf(err),
			})
		}

		c.Locals(UserKey, user)
		c.Locals(UserIDKey, user.ID)
		return c.Next()
	}
}

// UserID returns the identifier stored by ProtectRoute.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
