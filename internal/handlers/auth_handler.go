package handlers

import (
	"time"

	"sosmed/internal/middleware"
	"sosmed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	validate     *validator.Validate
	cookieMaxAge time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. The session cookie lives as long
// as the token and is Secure unless secureCookie is false.
func NewAuthHandler(authService *services.AuthService, cookieMaxAge time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validate:     newValidator(),
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the authentication routes. Only /me needs a session.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/me", protect, h.HandleMe)
}

// SignupRequest represents the request body for signup. The password is
// checked by the service after the uniqueness checks.
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"simpleemail"`
	Password string `json:"password"`
}

// HandleSignup registers a user and starts a session.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, "signup", err)
	}

	h.setSessionCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin checks credentials and starts a session. Missing fields fall
// through to the same invalid credentials answer as wrong ones.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	user, token, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, "login", err)
	}

	h.setSessionCookie(c, token)
	return c.JSON(user)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.secureCookie,
	})
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// HandleMe returns the user behind the session.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(middleware.UserID(c))
	if err != nil {
		return respondError(c, "getMe", err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		MaxAge:   int(h.cookieMaxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.secureCookie,
	})
}
