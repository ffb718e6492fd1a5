// Package repomanager vends the repositories for one storage backend and owns
// that backend's lifecycle: migrations, health checks, transactions, close.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
)

// Repositories is the set of repositories usable inside a unit of work.
type Repositories interface {
	Users() users.Repository
	Notes() notes.Repository
}

type RepositoryManager interface {
	Repositories

	// Revocations returns the ledger stored alongside the other data.
	// Deployments may swap in a dedicated ledger backend instead.
	Revocations() revocations.Ledger

	// WithinTx runs fn with repositories bound to a single transaction,
	// committing when fn returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
