package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/user/page-analyzer/internal/entity"
	"github.com/user/page-analyzer/internal/repository"
	"github.com/user/page-analyzer/pkg/metrics"
	"go.uber.org/zap"
)

// FetchError means the page could not be fetched at all. Nothing was persisted.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Checker defines the interface for running an on-demand check.
type Checker interface {
	// Run fetches the URL once and records the result. It returns
	// ErrURLNotFound when the id does not resolve and *FetchError on
	// network failure; any other error is a persistence failure.
	Run(ctx context.Context, urlID int64) (*entity.Check, error)
}

type checkerUseCase struct {
	urlRepo   repository.URLRepository
	checkRepo repository.CheckRepository
	fetcher   repository.PageFetcher
	logger    *zap.Logger
	now       func() time.Time
}

// NewChecker creates a new instance of the check use case.
func NewChecker(
	urlRepo repository.URLRepository,
	checkRepo repository.CheckRepository,
	fetcher repository.PageFetcher,
	logger *zap.Logger,
) Checker {
	return &checkerUseCase{
		urlRepo:   urlRepo,
		checkRepo: checkRepo,
		fetcher:   fetcher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *checkerUseCase) Run(ctx context.Context, urlID int64) (*entity.Check, error) {
	target, err := uc.urlRepo.FindByID(ctx, urlID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.URLChecksTotal.WithLabelValues("not_found").Inc()
		return nil, ErrURLNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load url %d: %w", urlID, err)
	}

	host := "unknown"
	if parsed, err := url.Parse(target.Name); err == nil {
		host = parsed.Hostname()
	}

	start := time.Now()
	snapshot, fetchErr := uc.fetcher.Fetch(ctx, target.Name)
	metrics.URLCheckDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())

	if fetchErr != nil {
		metrics.URLChecksTotal.WithLabelValues("failed").Inc()
		uc.logger.Warn("check failed", zap.Int64("url_id", urlID), zap.String("url", target.Name), zap.Error(fetchErr))
		return nil, &FetchError{URL: target.Name, Err: fetchErr}
	}

	statusCode := snapshot.StatusCode
	check := &entity.Check{
		URLID:       urlID,
		StatusCode:  &statusCode,
		H1:          snapshot.H1,
		Title:       snapshot.Title,
		Description: snapshot.Description,
		CreatedAt:   uc.now(),
	}

	id, err := uc.checkRepo.Insert(ctx, check)
	if errors.Is(err, repository.ErrForeignKeyViolation) {
		metrics.URLChecksTotal.WithLabelValues("not_found").Inc()
		return nil, ErrURLNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save check for url %d: %w", urlID, err)
	}
	check.ID = id

	metrics.URLChecksTotal.WithLabelValues("recorded").Inc()
	uc.logger.Info("check recorded",
		zap.Int64("url_id", urlID),
		zap.Int64("check_id", id),
		zap.Int("status_code", statusCode),
	)
	return check, nil
}
