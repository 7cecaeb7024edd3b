package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/user/page-analyzer/internal/entity"
	"github.com/user/page-analyzer/internal/repository"
)

// Simple in-memory repositories for testing.
type fakeURLRepo struct {
	mu        sync.Mutex
	urls      map[int64]entity.URL
	nextID    int64
	findErr   error
	insertErr error
}

func newFakeURLRepo() *fakeURLRepo {
	return &fakeURLRepo{urls: make(map[int64]entity.URL)}
}

func (r *fakeURLRepo) FindByName(_ context.Context, name string) (*entity.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.urls {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeURLRepo) FindByID(_ context.Context, id int64) (*entity.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.urls[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeURLRepo) Insert(_ context.Context, name string, createdAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.nextID++
	r.urls[r.nextID] = entity.URL{ID: r.nextID, Name: name, CreatedAt: createdAt}
	return r.nextID, nil
}

func (r *fakeURLRepo) ListWithLastCheck(context.Context) ([]entity.URLSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.URLSummary
	for _, u := range r.urls {
		out = append(out, entity.URLSummary{URL: u})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeCheckRepo struct {
	mu        sync.Mutex
	urls      *fakeURLRepo
	checks    []entity.Check
	insertErr error
}

func (r *fakeCheckRepo) Insert(ctx context.Context, check *entity.Check) (int64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	if _, err := r.urls.FindByID(ctx, check.URLID); err != nil {
		return 0, repository.ErrForeignKeyViolation
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *check
	c.ID = int64(len(r.checks) + 1)
	r.checks = append(r.checks, c)
	return c.ID, nil
}

func (r *fakeCheckRepo) ListByURL(_ context.Context, urlID int64) ([]entity.Check, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Check{}
	for i := len(r.checks) - 1; i >= 0; i-- {
		if r.checks[i].URLID == urlID {
			out = append(out, r.checks[i])
		}
	}
	return out, nil
}

type fakeFetcher struct {
	snapshot *entity.PageSnapshot
	err      error
	calls    []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*entity.PageSnapshot, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	s := *f.snapshot
	return &s, nil
}
