package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/page-analyzer/internal/entity"
)

const flashKeyPrefix = "flash:"

// FlashRepoImpl provides a concrete implementation for the FlashStore interface using Redis Lists.
type FlashRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFlashRepo creates a new instance of FlashRepoImpl. Pending messages of
// abandoned sessions expire after ttl.
func NewFlashRepo(client *redis.Client, ttl time.Duration) *FlashRepoImpl {
	return &FlashRepoImpl{client: client, ttl: ttl}
}

func (r *FlashRepoImpl) key(sessionID string) string {
	return flashKeyPrefix + sessionID
}

// Add appends the message to the right side of the session's list and refreshes its expiry.
func (r *FlashRepoImpl) Add(ctx context.Context, sessionID string, flash entity.Flash) error {
	payload, err := json.Marshal(flash)
	if err != nil {
		return err
	}
	key := r.key(sessionID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, r.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Pop reads and deletes the session's list atomically.
func (r *FlashRepoImpl) Pop(ctx context.Context, sessionID string) ([]entity.Flash, error) {
	key := r.key(sessionID)
	pipe := r.client.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	flashes := make([]entity.Flash, 0, len(items.Val()))
	for _, raw := range items.Val() {
		var f entity.Flash
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return nil, fmt.Errorf("decode flash for session %s: %w", sessionID, err)
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

func (r *FlashRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
