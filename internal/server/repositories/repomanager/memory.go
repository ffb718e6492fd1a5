package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. Data is lost
// on restart and revocations are not shared between instances.
type InMemoryRepositoryManager struct {
	users       *users.MemoryRepository
	notes       *notes.MemoryRepository
	revocations *revocations.MemoryLedger

	// txMu serialises units of work. There is no rollback: writes made before
	// fn fails stay applied.
	txMu sync.Mutex
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:       users.NewMemoryRepository(),
		notes:       notes.NewMemoryRepository(),
		revocations: revocations.NewMemoryLedger(),
	}
}

func (m *InMemoryRepositoryManager) Users() users.Repository         { return m.users }
func (m *InMemoryRepositoryManager) Notes() notes.Repository         { return m.notes }
func (m *InMemoryRepositoryManager) Revocations() revocations.Ledger { return m.revocations }

func (m *InMemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Ping(ctx context.Context) error          { return nil }
func (m *InMemoryRepositoryManager) Close() error                            { return nil }
