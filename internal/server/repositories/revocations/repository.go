// Package revocations implements the revocation ledger: the shared set of
// revoked token ids consulted by every verifier instance.
package revocations

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Ledger is an append-only set of revoked jtis.
//
// Revoke is insert-if-absent: it reports inserted=true only for the call that
// created the entry, so concurrent revokes of one jti have exactly one winner.
// Revoking an already revoked jti is not an error. Once Revoke returns, every
// later IsRevoked call, from any process sharing the backend, observes it.
type Ledger interface {
	Revoke(ctx context.Context, entry models.RevocationEntry) (inserted bool, err error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// Prune drops entries whose token expired before the given time and
	// returns how many were removed.
	Prune(ctx context.Context, before time.Time) (int64, error)
}
