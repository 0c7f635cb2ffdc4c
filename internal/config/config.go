package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the services need at construction time.
type Config struct {
	AppPort   string
	AppEnv    string
	BodyLimit int

	DBDriver    string
	DatabaseDSN string

	JWTSecret string
	JWTTTL    time.Duration

	Cloudinary CloudinaryConfig

	RabbitMQURL string
	RedisURL    string

	LoginMaxAttempts int
	LoginWindow      time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// CloudinaryConfig holds image host credentials.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// IsDevelopment reports whether cookies may be sent over plain HTTP.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Could not load .env file: %v", err)
	}
	return FromViper(viper.New())
}

// FromViper builds a Config from v after applying defaults and AutomaticEnv.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("BODY_LIMIT", 5*1024*1024)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=sosmed port=5432 sslmode=disable")
	v.SetDefault("JWT_TTL", 15*24*time.Hour)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_WINDOW", 15*time.Minute)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		AppEnv:      v.GetString("APP_ENV"),
		BodyLimit:   v.GetInt("BODY_LIMIT"),
		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTTTL:      v.GetDuration("JWT_TTL"),
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RedisURL:         v.GetString("REDIS_URL"),
		LoginMaxAttempts: v.GetInt("LOGIN_MAX_ATTEMPTS"),
		LoginWindow:      v.GetDuration("LOGIN_WINDOW"),
		RateLimitRPS:     v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:   v.GetInt("RATE_LIMIT_BURST"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}
