package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Clock returns the current time. Tests pass a fixed clock.
type Clock func() time.Time

// Issuer signs HS256 tokens with a process-wide secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        Clock
}

// NewIssuer returns an Issuer. A nil clock means time.Now.
func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration, now Clock) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL, now: now}
}

// Issue signs a new token for subject. Every call gets a fresh random jti.
// fresh is ignored for refresh tokens.
func (i *Issuer) Issue(subject string, id Identity, typ models.TokenType, fresh bool) (string, error) {
	var ttl time.Duration
	switch typ {
	case models.TokenTypeAccess:
		ttl = i.accessTTL
	case models.TokenTypeRefresh:
		ttl = i.refreshTTL
		fresh = false
	default:
		return "", fmt.Errorf("unknown token type %q", typ)
	}
	if len(i.secret) == 0 {
		return "", errors.New("empty signing secret")
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:   typ,
		Fresh:  fresh,
		Role:   id.Role,
		Active: id.Active,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssuePair signs an access token (with the given freshness) and a refresh
// token for the same subject. The two are not linked to each other.
func (i *Issuer) IssuePair(subject string, id Identity, fresh bool) (*TokenPair, error) {
	access, err := i.Issue(subject, id, models.TokenTypeAccess, fresh)
	if err != nil {
		return nil, err
	}
	refresh, err := i.Issue(subject, id, models.TokenTypeRefresh, false)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
