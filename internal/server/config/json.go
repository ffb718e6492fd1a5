package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

// Duration accepts either a Go duration string ("15m") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		d.Duration = v
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %s", b)
	}
	d.Duration = time.Duration(n)
	return nil
}

// jsonConfig mirrors Config for unmarshalling. It is pre-filled from the
// current values so keys absent from the file leave them untouched.
type jsonConfig struct {
	HTTPAddress                  string   `json:"http_address"`
	DatabaseDSN                  string   `json:"database_dsn"`
	Env                          string   `json:"env"`
	SecretKey                    string   `json:"secret_key"`
	AccessTokenValidityDuration  Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   int      `json:"bcrypt_cost"`
	StorageBackend               string   `json:"storage_backend"`
	RevocationBackend            string   `json:"revocation_backend"`
	RedisAddr                    string   `json:"redis_addr"`
	RedisPassword                string   `json:"redis_password"`
	RedisDB                      int      `json:"redis_db"`
	CORSOrigins                  string   `json:"cors_origins"`
	RateLimitEnabled             bool     `json:"rate_limit_enabled"`
	MaxContentLength             int      `json:"max_content_length"`
	EnforceHTTPS                 bool     `json:"enforce_https"`
	StoreTimeout                 Duration `json:"store_timeout"`
}

func jsonPathFromArgs(args []string) string {
	return flagx.ConfigPath(args)
}

// parseJSON overlays values from the JSON file at path. An empty path is a
// no-op; an unreadable or malformed file is an error.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := jsonConfig{
		HTTPAddress:                  cfg.HTTPAddress,
		DatabaseDSN:                  cfg.DatabaseDSN,
		Env:                          cfg.Env,
		SecretKey:                    cfg.SecretKey,
		AccessTokenValidityDuration:  Duration{cfg.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: Duration{cfg.RefreshTokenValidityDuration},
		BcryptCost:                   cfg.BcryptCost,
		StorageBackend:               cfg.StorageBackend,
		RevocationBackend:            cfg.RevocationBackend,
		RedisAddr:                    cfg.RedisAddr,
		RedisPassword:                cfg.RedisPassword,
		RedisDB:                      cfg.RedisDB,
		CORSOrigins:                  cfg.CORSOrigins,
		RateLimitEnabled:             cfg.RateLimitEnabled,
		MaxContentLength:             cfg.MaxContentLength,
		EnforceHTTPS:                 cfg.EnforceHTTPS,
		StoreTimeout:                 Duration{cfg.StoreTimeout},
	}
	if err := json.Unmarshal(file, &c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	cfg.HTTPAddress = c.HTTPAddress
	cfg.DatabaseDSN = c.DatabaseDSN
	cfg.Env = c.Env
	cfg.SecretKey = c.SecretKey
	cfg.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	cfg.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	cfg.BcryptCost = c.BcryptCost
	cfg.StorageBackend = c.StorageBackend
	cfg.RevocationBackend = c.RevocationBackend
	cfg.RedisAddr = c.RedisAddr
	cfg.RedisPassword = c.RedisPassword
	cfg.RedisDB = c.RedisDB
	cfg.CORSOrigins = c.CORSOrigins
	cfg.RateLimitEnabled = c.RateLimitEnabled
	cfg.MaxContentLength = c.MaxContentLength
	cfg.EnforceHTTPS = c.EnforceHTTPS
	cfg.StoreTimeout = c.StoreTimeout.Duration
	return nil
}
