package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// RevocationChecker is the read side of the revocation ledger.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Verifier checks signature, expiry, type and revocation of incoming tokens.
// It never mutates anything.
type Verifier struct {
	secret  []byte
	ledger  RevocationChecker
	now     Clock
	methods []string
}

// NewVerifier returns a Verifier. A nil clock means time.Now.
func NewVerifier(secret []byte, ledger RevocationChecker, now Clock) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{
		secret:  secret,
		ledger:  ledger,
		now:     now,
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

// Verify decodes raw and runs the checks in order, each with its own error:
//
//  1. bad structure, signature or algorithm: common.ErrTokenInvalid
//  2. expiry not after now: common.ErrTokenExpired
//  3. required type given and different: common.ErrTokenInvalid
//  4. jti present in the ledger: common.ErrTokenRevoked
//
// An empty required type accepts both kinds. Ledger failures are returned
// wrapped and match none of the above.
func (v *Verifier) Verify(ctx context.Context, raw string, required models.TokenType) (*VerifiedToken, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods(v.methods),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrTokenInvalid, err)
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", common.ErrTokenInvalid)
	}
	if claims.Type != models.TokenTypeAccess && claims.Type != models.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: unknown token type %q", common.ErrTokenInvalid, claims.Type)
	}
	if required != "" && claims.Type != required {
		return nil, fmt.Errorf("%w: %s token where %s token required", common.ErrTokenInvalid, claims.Type, required)
	}

	revoked, err := v.ledger.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	tok := &VerifiedToken{
		Subject: claims.Subject,
		JTI:     claims.ID,
		Type:    claims.Type,
		Fresh:   claims.Fresh,
		Role:    claims.Role,
		Active:  claims.Active,
	}
	if claims.IssuedAt != nil {
		tok.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tok.ExpiresAt = claims.ExpiresAt.Time
	}
	return tok, nil
}
