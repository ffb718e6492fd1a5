// Package services contains server-side business logic. SessionService
// drives the token lifecycle: register, login, refresh rotation and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/revocations"
)

// SessionService coordinates the credential store, password hasher, token
// issuer and revocation ledger. It holds no per-session state of its own.
type SessionService struct {
	repomanager repomanager.RepositoryManager
	ledger      revocations.Ledger
	issuer      *auth.Issuer
	verifier    *auth.Verifier
	hasher      *auth.PasswordHasher
	log         logging.Logger
	now         auth.Clock
}

func NewSessionService(
	m repomanager.RepositoryManager,
	ledger revocations.Ledger,
	issuer *auth.Issuer,
	verifier *auth.Verifier,
	hasher *auth.PasswordHasher,
	log logging.Logger,
) *SessionService {
	return &SessionService{
		repomanager: m,
		ledger:      ledger,
		issuer:      issuer,
		verifier:    verifier,
		hasher:      hasher,
		log:         log.With("module", "session"),
		now:         time.Now,
	}
}

func identityOf(u *models.User) auth.Identity {
	return auth.Identity{Role: u.Role, Active: u.IsActive}
}

// Authenticate verifies a bearer token. required may be empty to accept
// either token type.
func (s *SessionService) Authenticate(ctx context.Context, raw string, required models.TokenType) (*auth.VerifiedToken, error) {
	return s.verifier.Verify(ctx, raw, required)
}

// Register creates an active user with the default role and returns a fresh
// token pair. A taken email yields common.ErrConflict.
func (s *SessionService) Register(ctx context.Context, email, password string) (*auth.TokenPair, *models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{
		Email:        common.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuer.IssuePair(user.ID.String(), identityOf(user), true)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID.String())
	return pair, user, nil
}

// Login checks the password first and the active flag second. Unknown email
// and wrong password both yield common.ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info(ctx, "login rejected", "user_id", user.ID.String())
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrUserInactive
	}

	return s.issuer.IssuePair(user.ID.String(), identityOf(user), true)
}

// Refresh rotates a refresh token. The presented jti is revoked with
// insert-if-absent semantics before the new pair is issued, so of several
// concurrent refreshes with one token only the first gets a pair; the rest
// see common.ErrTokenRevoked. The new access token is not fresh.
func (s *SessionService) Refresh(ctx context.Context, raw string) (*auth.TokenPair, error) {
	tok, err := s.verifier.Verify(ctx, raw, models.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	userID, err := tok.UserID()
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserInactive
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrUserInactive
	}

	inserted, err := s.revoke(ctx, tok)
	if err != nil {
		return nil, err
	}
	if !inserted {
		s.log.Warn(ctx, "refresh token replayed", "user_id", user.ID.String(), "jti", tok.JTI)
		return nil, common.ErrTokenRevoked
	}

	return s.issuer.IssuePair(user.ID.String(), identityOf(user), false)
}

// Logout revokes the presented token, access or refresh. Its sibling token
// stays valid. It returns the type of the revoked token.
func (s *SessionService) Logout(ctx context.Context, raw string) (models.TokenType, error) {
	tok, err := s.verifier.Verify(ctx, raw, "")
	if err != nil {
		return "", err
	}

	if _, err := s.revoke(ctx, tok); err != nil {
		return "", err
	}

	s.log.Info(ctx, "token revoked", "user_id", tok.Subject, "token_type", string(tok.Type))
	return tok.Type, nil
}

// Me loads the current user record for a verified token.
func (s *SessionService) Me(ctx context.Context, tok *auth.VerifiedToken) (*models.User, error) {
	userID, err := tok.UserID()
	if err != nil {
		return nil, err
	}
	return s.repomanager.Users().GetByID(ctx, userID)
}

// PruneRevocations drops ledger entries whose token has already expired.
func (s *SessionService) PruneRevocations(ctx context.Context) (int64, error) {
	return s.ledger.Prune(ctx, s.now())
}

func (s *SessionService) revoke(ctx context.Context, tok *auth.VerifiedToken) (bool, error) {
	inserted, err := s.ledger.Revoke(ctx, models.RevocationEntry{
		JTI:       tok.JTI,
		TokenType: tok.Type,
		RevokedAt: s.now().UTC(),
		ExpiresAt: tok.ExpiresAt,
	})
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return inserted, nil
}
