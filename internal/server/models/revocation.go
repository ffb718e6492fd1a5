package models

import "time"

// TokenType distinguishes the two token kinds carried in the "type" claim.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// RevocationEntry records a revoked token id. Entries are never updated;
// ExpiresAt is the token's own expiry, after which the entry may be pruned.
type RevocationEntry struct {
	JTI       string    `db:"jti"`
	TokenType TokenType `db:"token_type"`
	RevokedAt time.Time `db:"revoked_at"`
	ExpiresAt time.Time `db:"expires_at"`
}
