package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds raw environment values. Pointers stay nil when a variable
// is unset so only present variables override earlier sources.
type envConfig struct {
	HTTPAddress       *string `env:"GOPHNOTES_HTTP_ADDRESS"`
	DatabaseDSN       *string `env:"DATABASE_URL"`
	Env               *string `env:"APP_ENV"`
	SecretKey         *string `env:"JWT_SECRET_KEY"`
	AccessMinutes     *int    `env:"JWT_ACCESS_MINUTES"`
	RefreshDays       *int    `env:"JWT_REFRESH_DAYS"`
	BcryptCost        *int    `env:"BCRYPT_COST"`
	StorageBackend    *string `env:"GOPHNOTES_STORAGE"`
	RevocationBackend *string `env:"GOPHNOTES_REVOCATION"`
	RedisAddr         *string `env:"REDIS_ADDR"`
	RedisPassword     *string `env:"REDIS_PASSWORD"`
	RedisDB           *int    `env:"REDIS_DB"`
	CORSOrigins       *string `env:"CORS_ORIGINS"`
	CORSAllowHeaders  *string `env:"CORS_ALLOW_HEADERS"`
	CORSExposeHeaders *string `env:"CORS_EXPOSE_HEADERS"`
	RateLimitEnabled  *bool   `env:"RATELIMIT_ENABLED"`
	MaxContentLength  *int    `env:"MAX_CONTENT_LENGTH"`
	EnforceHTTPS      *bool   `env:"ENFORCE_HTTPS"`
}

// parseEnv overlays environment variables. environ replaces the process
// environment when non-nil.
func parseEnv(cfg *Config, environ map[string]string) error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&cfg.HTTPAddress, e.HTTPAddress)
	setString(&cfg.DatabaseDSN, e.DatabaseDSN)
	setString(&cfg.Env, e.Env)
	setString(&cfg.SecretKey, e.SecretKey)
	if e.AccessMinutes != nil {
		cfg.AccessTokenValidityDuration = time.Duration(*e.AccessMinutes) * time.Minute
	}
	if e.RefreshDays != nil {
		cfg.RefreshTokenValidityDuration = time.Duration(*e.RefreshDays) * 24 * time.Hour
	}
	setInt(&cfg.BcryptCost, e.BcryptCost)
	setString(&cfg.StorageBackend, e.StorageBackend)
	setString(&cfg.RevocationBackend, e.RevocationBackend)
	setString(&cfg.RedisAddr, e.RedisAddr)
	setString(&cfg.RedisPassword, e.RedisPassword)
	setInt(&cfg.RedisDB, e.RedisDB)
	setString(&cfg.CORSOrigins, e.CORSOrigins)
	setString(&cfg.CORSAllowHeaders, e.CORSAllowHeaders)
	setString(&cfg.CORSExposeHeaders, e.CORSExposeHeaders)
	if e.RateLimitEnabled != nil {
		cfg.RateLimitEnabled = *e.RateLimitEnabled
	}
	setInt(&cfg.MaxContentLength, e.MaxContentLength)
	if e.EnforceHTTPS != nil {
		cfg.EnforceHTTPS = *e.EnforceHTTPS
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
