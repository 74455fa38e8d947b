package submitguard

import (
	"context"
	"sync"
	"time"
)

var _ Guard = (*MemoryGuard)(nil)

// MemoryGuard хранит блокировки в памяти процесса.
// Просроченные записи вычищает Cleanup.
type MemoryGuard struct {
	ttl   time.Duration
	locks map[string]time.Time // ключ -> момент истечения
	now   func() time.Time
	mu    sync.Mutex
}

// NewMemoryGuard создаёт MemoryGuard. ttl <= 0 заменяется на DefaultTTL.
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryGuard{
		ttl:   ttl,
		locks: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (g *MemoryGuard) Acquire(_ context.Context, userID, testID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := key(userID, testID)
	now := g.now()
	if expires, ok := g.locks[k]; ok && now.Before(expires) {
		return ErrAlreadySubmitted
	}

	g.locks[k] = now.Add(g.ttl)

	return nil
}

func (g *MemoryGuard) Release(_ context.Context, userID, testID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.locks, key(userID, testID))

	return nil
}

// Cleanup удаляет просроченные блокировки и возвращает их число.
func (g *MemoryGuard) Cleanup() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	removed := 0
	for k, expires := range g.locks {
		if !now.Before(expires) {
			delete(g.locks, k)
			removed++
		}
	}

	return removed
}

// Len возвращает число хранимых блокировок, включая просроченные.
func (g *MemoryGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.locks)
}
