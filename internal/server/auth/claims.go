// Package auth implements the token lifecycle primitives: password hashing,
// JWT issuance and verification, and the role/ownership guard. Nothing here
// touches HTTP or storage directly; revocation is consulted through
// RevocationChecker.
package auth

import (
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT payload. Access and refresh tokens share it and differ
// only in Type, Fresh and lifetime.
type Claims struct {
	jwt.RegisteredClaims
	Type   models.TokenType `json:"type"`
	Fresh  bool             `json:"fresh,omitempty"`
	Role   models.Role      `json:"role"`
	Active bool             `json:"is_active"`
}

// Identity is the user snapshot embedded into a token at issue time. It is
// not re-checked against the user record on verification.
type Identity struct {
	Role   models.Role
	Active bool
}

// VerifiedToken is the decoded result of a successful verification.
type VerifiedToken struct {
	Subject   string
	JTI       string
	Type      models.TokenType
	Fresh     bool
	Role      models.Role
	Active    bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UserID parses the subject as a user id.
func (t *VerifiedToken) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(t.Subject)
	if err != nil {
		return uuid.Nil, common.ErrTokenSubject
	}
	return id, nil
}

// IsAdmin reports whether the token carries the admin role.
func (t *VerifiedToken) IsAdmin() bool {
	return t.Role == models.RoleAdmin
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
