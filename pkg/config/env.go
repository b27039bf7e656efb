package config

import (
	"os"
	"strconv"
	"time"
)

const (
	EnvAppEnv            = "APP_ENV"
	EnvPort              = "PORT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoReadTimeout  = "MONGO_READ_TIMEOUT"
	EnvMongoWriteTimeout = "MONGO_WRITE_TIMEOUT"

	EnvReadTimeout     = "HTTP_READ_TIMEOUT"
	EnvWriteTimeout    = "HTTP_WRITE_TIMEOUT"
	EnvIdleTimeout     = "HTTP_IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvMaxRequestSize  = "MAX_REQUEST_SIZE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvJWTSecret        = "JWT_SECRET"
	EnvJWTExpiresIn     = "JWT_EXPIRES_IN"
	EnvJWTCookieExpires = "JWT_COOKIE_EXPIRES_IN"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUsername = "SMTP_USERNAME"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvEmailFrom    = "EMAIL_FROM"

	EnvStripeSecretKey = "STRIPE_SECRET_KEY"

	EnvTourImageDir = "TOUR_IMAGE_DIR"
)

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
