package config

import "time"

const (
	DefaultAppEnv            = "development"
	DefaultPort              = "8080"
	DefaultLogLevel          = "info"
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "trailbook"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultMongoReadTimeout  = 5 * time.Second
	DefaultMongoWriteTimeout = 10 * time.Second

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxRequestSize  = 10 << 20 // multipart tour image uploads

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = time.Hour

	DefaultJWTExpiresIn     = 90 * 24 * time.Hour
	DefaultJWTCookieExpires = 90 * 24 * time.Hour

	DefaultSMTPPort  = 587
	DefaultEmailFrom = "Trailbook <hello@trailbook.dev>"

	DefaultTourImageDir = "public/img/tours"
)
