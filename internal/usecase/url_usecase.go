package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/page-analyzer/internal/entity"
	"github.com/user/page-analyzer/internal/repository"
	"github.com/user/page-analyzer/pkg/metrics"
	"github.com/user/page-analyzer/pkg/urlutil"
	"go.uber.org/zap"
)

var (
	// ErrURLNotFound is returned when a URL id does not resolve.
	ErrURLNotFound = errors.New("url not found")
)

// AddResult reports where a submitted URL lives and whether this call created it.
type AddResult struct {
	ID      int64
	Created bool
}

// URLManager defines the interface for registering and browsing URLs.
type URLManager interface {
	// Add validates and normalizes raw. Validation failures are urlutil errors;
	// an already registered name returns the existing id with Created false.
	Add(ctx context.Context, raw string) (AddResult, error)
	List(ctx context.Context) ([]entity.URLSummary, error)
	Get(ctx context.Context, id int64) (*entity.URLDetail, error)
}

type urlManagerUseCase struct {
	urlRepo   repository.URLRepository
	checkRepo repository.CheckRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewURLManager creates a new URLManager use case.
func NewURLManager(
	urlRepo repository.URLRepository,
	checkRepo repository.CheckRepository,
	logger *zap.Logger,
) URLManager {
	return &urlManagerUseCase{
		urlRepo:   urlRepo,
		checkRepo: checkRepo,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *urlManagerUseCase) Add(ctx context.Context, raw string) (AddResult, error) {
	name, err := urlutil.Normalize(raw)
	if err != nil {
		return AddResult{}, err
	}

	existing, err := uc.urlRepo.FindByName(ctx, name)
	if err == nil {
		return AddResult{ID: existing.ID}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return AddResult{}, fmt.Errorf("failed to look up url %s: %w", name, err)
	}

	// A concurrent insert of the same name surfaces here as ErrDuplicateName.
	id, err := uc.urlRepo.Insert(ctx, name, uc.now())
	if err != nil {
		return AddResult{}, fmt.Errorf("failed to insert url %s: %w", name, err)
	}

	metrics.URLsCreatedTotal.Inc()
	uc.logger.Info("url registered", zap.Int64("url_id", id), zap.String("name", name))
	return AddResult{ID: id, Created: true}, nil
}

func (uc *urlManagerUseCase) List(ctx context.Context) ([]entity.URLSummary, error) {
	summaries, err := uc.urlRepo.ListWithLastCheck(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	return summaries, nil
}

func (uc *urlManagerUseCase) Get(ctx context.Context, id int64) (*entity.URLDetail, error) {
	u, err := uc.urlRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrURLNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load url %d: %w", id, err)
	}

	checks, err := uc.checkRepo.ListByURL(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load checks for url %d: %w", id, err)
	}
	return &entity.URLDetail{URL: *u, Checks: checks}, nil
}
