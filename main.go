package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sosmed/internal/config"
	"sosmed/internal/database"
	"sosmed/internal/server"
	"sosmed/pkg/imagehost"
	"sosmed/pkg/rabbitmq"
	"sosmed/pkg/ratelimit"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	deps, cleanup, err := buildDependencies(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer cleanup()

	app := server.NewApp(deps)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// buildDependencies opens the database and the optional clients. RabbitMQ,
// Redis and Cloudinary are skipped when unconfigured; a configured one that
// cannot be reached is logged and skipped as well.
func buildDependencies(ctx context.Context, cfg *config.Config) (server.Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return server.Dependencies{}, cleanup, err
	}
	closers = append(closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	deps := server.Dependencies{
		Config:    cfg,
		DB:        db,
		IPLimiter: ratelimit.NewIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute),
	}

	// --- Image host ---
	if cfg.Cloudinary.CloudName != "" {
		host, err := imagehost.NewCloudinaryHost(imagehost.Config{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
		})
		if err != nil {
			log.Printf("Warning: image uploads disabled: %v", err)
		} else {
			deps.Images = host
		}
	} else {
		log.Println("CLOUDINARY_CLOUD_NAME not set, image uploads disabled")
	}

	// --- RabbitMQ ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: notification events disabled: %v", err)
		} else {
			deps.Events = mqClient
			closers = append(closers, func() {
				if err := mqClient.Close(); err != nil {
					log.Printf("Error closing RabbitMQ client: %v", err)
				}
			})
		}
	}

	// --- Redis ---
	redisClient, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: login throttling disabled: %v", err)
		redisClient = nil
	}
	if redisClient != nil {
		closers = append(closers, func() { redisClient.Close() })
		deps.Limiter = ratelimit.NewAttemptLimiter(redisClient, "login", cfg.LoginMaxAttempts, cfg.LoginWindow)
	}

	return deps, cleanup, nil
}
