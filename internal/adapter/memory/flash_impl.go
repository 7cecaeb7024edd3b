package memory

import (
	"context"
	"sync"
	"time"

	"github.com/user/page-analyzer/internal/entity"
)

// DefaultTTL applies when NewFlashRepo gets a non-positive ttl.
const DefaultTTL = time.Hour

type pendingFlashes struct {
	flashes   []entity.Flash
	expiresAt time.Time
}

// FlashRepoImpl keeps flash messages in process memory. It serves single-node
// deployments without Redis. Sessions that never come back to read their
// messages are dropped once ttl has passed since the last Add.
type FlashRepoImpl struct {
	mu        sync.Mutex
	pending   map[string]*pendingFlashes
	ttl       time.Duration
	nextSweep time.Time
	now       func() time.Time
}

// NewFlashRepo creates a new instance of FlashRepoImpl.
func NewFlashRepo(ttl time.Duration) *FlashRepoImpl {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FlashRepoImpl{
		pending: make(map[string]*pendingFlashes),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *FlashRepoImpl) Add(_ context.Context, sessionID string, flash entity.Flash) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	entry, ok := r.pending[sessionID]
	if !ok || !now.Before(entry.expiresAt) {
		entry = &pendingFlashes{}
		r.pending[sessionID] = entry
	}
	entry.flashes = append(entry.flashes, flash)
	entry.expiresAt = now.Add(r.ttl)
	return nil
}

func (r *FlashRepoImpl) Pop(_ context.Context, sessionID string) ([]entity.Flash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	entry, ok := r.pending[sessionID]
	if !ok {
		return nil, nil
	}
	delete(r.pending, sessionID)
	if !now.Before(entry.expiresAt) {
		return nil, nil
	}
	return entry.flashes, nil
}

func (r *FlashRepoImpl) Ping(context.Context) error { return nil }

// sweep drops expired sessions. It walks the map at most once per ttl/2, so an
// abandoned session lives at most 1.5*ttl. Callers hold r.mu.
func (r *FlashRepoImpl) sweep(now time.Time) {
	if now.Before(r.nextSweep) {
		return
	}
	for id, entry := range r.pending {
		if !now.Before(entry.expiresAt) {
			delete(r.pending, id)
		}
	}
	r.nextSweep = now.Add(r.ttl / 2)
}
