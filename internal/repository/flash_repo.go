package repository

import (
	"context"

	"github.com/user/page-analyzer/internal/entity"
)

// FlashStore keeps one-shot messages per session.
type FlashStore interface {
	// Add queues a message for the session's next render.
	Add(ctx context.Context, sessionID string, flash entity.Flash) error
	// Pop returns pending messages in insertion order and clears them.
	Pop(ctx context.Context, sessionID string) ([]entity.Flash, error)
	Ping(ctx context.Context) error
}
