package server

import (
	"errors"
	"log"
	"time"

	"sosmed/internal/config"
	"sosmed/internal/handlers"
	"sosmed/internal/middleware"
	"sosmed/internal/repositories"
	"sosmed/internal/services"
	"sosmed/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Dependencies are the collaborators NewApp wires into the route table.
// Images, Events and Limiter may be nil.
type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Images  services.ImageHost
	Events  services.EventPublisher
	Limiter services.LoginLimiter
	// IPLimiter throttles /api per client address when set.
	IPLimiter *ratelimit.IPLimiter
	// Quiet disables request logging.
	Quiet bool
}

// NewApp builds the fiber application.
func NewApp(deps Dependencies) *fiber.App {
	cfg := deps.Config

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	followRepo := repositories.NewGORMFollowRepository(deps.DB)
	postRepo := repositories.NewGORMPostRepository(deps.DB)
	notificationRepo := repositories.NewGORMNotificationRepository(deps.DB)

	// --- Initialize Services ---
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokens, deps.Limiter)
	userService := services.NewUserService(userRepo, followRepo, deps.Images, deps.Events)
	postService := services.NewPostService(postRepo, userRepo, deps.Images, deps.Events)
	notificationService := services.NewNotificationService(notificationRepo)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, tokens.TTL(), !cfg.IsDevelopment())
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if !deps.Quiet {
		app.Use(logger.New())
	}

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	api := app.Group("/api")
	if deps.IPLimiter != nil {
		api.Use(middleware.RateLimit(deps.IPLimiter))
	}

	protect := middleware.ProtectRoute(authService)
	authHandler.RegisterRoutes(api, protect)
	userHandler.RegisterRoutes(api, protect)
	postHandler.RegisterRoutes(api, protect)
	notificationHandler.RegisterRoutes(api, protect)

	return app
}

// errorHandler answers errors that escaped a handler, such as unknown routes
// and oversized bodies, with the same {"error": ...} shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		message = "Internal Server Error"
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
