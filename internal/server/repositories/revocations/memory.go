package revocations

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// MemoryLedger is visible only inside one process. Use it for tests and
// single-instance development; it does not satisfy cluster-wide revocation.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries map[string]models.RevocationEntry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]models.RevocationEntry)}
}

func (l *MemoryLedger) Revoke(ctx context.Context, entry models.RevocationEntry) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[entry.JTI]; ok {
		return false, nil
	}
	l.entries[entry.JTI] = entry
	return true, nil
}

func (l *MemoryLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.entries[jti]
	return ok, nil
}

func (l *MemoryLedger) Prune(ctx context.Context, before time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int64
	for jti, e := range l.entries {
		if e.ExpiresAt.Before(before) {
			delete(l.entries, jti)
			n++
		}
	}
	return n, nil
}
