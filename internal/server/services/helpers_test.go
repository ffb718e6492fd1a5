package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/revocations"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

type fixture struct {
	m        *repomanager.InMemoryRepositoryManager
	ledger   revocations.Ledger
	hasher   *auth.PasswordHasher
	issuer   *auth.Issuer
	verifier *auth.Verifier
	sessions *SessionService
	notes    *NoteService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithLedger(t, nil)
}

// newFixtureWithLedger uses ledger when non-nil, the manager's own otherwise.
func newFixtureWithLedger(t *testing.T, ledger revocations.Ledger) *fixture {
	t.Helper()

	m := repomanager.NewInMemoryRepositoryManager()
	if ledger == nil {
		ledger = m.Revocations()
	}
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	issuer := auth.NewIssuer(testSecret, 15*time.Minute, 24*time.Hour, nil)
	verifier := auth.NewVerifier(testSecret, ledger, nil)
	log := logging.Nop{}

	return &fixture{
		m:        m,
		ledger:   ledger,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		sessions: NewSessionService(m, ledger, issuer, verifier, hasher, log),
		notes:    NewNoteService(m, log),
		users:    NewUserService(m, hasher, log),
	}
}

// seedUser inserts a user directly and returns it with a verified access token.
func (f *fixture) seedUser(t *testing.T, email string, role models.Role, active bool) (*models.User, *auth.VerifiedToken) {
	t.Helper()
	ctx := context.Background()

	hash, err := f.hasher.Hash("Secret1234")
	require.NoError(t, err)
	u, err := f.m.Users().Create(ctx, &models.User{Email: email, PasswordHash: hash, Role: role, IsActive: active})
	require.NoError(t, err)

	raw, err := f.issuer.Issue(u.ID.String(), auth.Identity{Role: role, Active: active}, models.TokenTypeAccess, true)
	require.NoError(t, err)
	tok, err := f.verifier.Verify(ctx, raw, models.TokenTypeAccess)
	require.NoError(t, err)
	return u, tok
}
