package repository

import (
	"context"

	"github.com/user/page-analyzer/internal/entity"
)

// PageFetcher defines the contract for fetching a page and extracting its SEO fields.
type PageFetcher interface {
	// Fetch issues one GET against url. Any returned error is a network-level
	// failure; HTTP error statuses are reported in the snapshot instead.
	Fetch(ctx context.Context, url string) (*entity.PageSnapshot, error)
}
