// Package common contains shared constants and sentinel errors used across
// gophnotes components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// RequestIDHeaderName is echoed on every response and attached to request logs.
const RequestIDHeaderName = "X-Request-Id"

// Password length bounds in runes, shared by registration and operator
// account creation.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)
