package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "featured:user:"

type featuredEntry struct {
	UserID     string    `json:"user_id"`
	Until      time.Time `json:"until"`
	PromotedAt time.Time `json:"promoted_at"`
}

// Redis keeps featured promotions with a native key TTL, so expired entries
// disappear without a sweeper. ActiveUntil still double-checks the stored
// expiry in case a key outlives it by a moment.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func key(userID string) string {
	return keyPrefix + userID
}

func (r *Redis) SetFeatured(ctx context.Context, userID string, until time.Time) error {
	entry := featuredEntry{
		UserID:     userID,
		Until:      until,
		PromotedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal featured entry: %w", err)
	}

	ttl := time.Until(until)
	if ttl <= 0 {
		return fmt.Errorf("featured expiry %s is in the past", until)
	}
	if err := r.client.Set(ctx, key(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store featured entry: %w", err)
	}
	return nil
}

func (r *Redis) ActiveUntil(ctx context.Context, userID string) (time.Time, bool, error) {
	data, err := r.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read featured entry: %w", err)
	}

	var entry featuredEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to unmarshal featured entry: %w", err)
	}
	if !entry.Until.After(time.Now()) {
		return time.Time{}, false, nil
	}
	return entry.Until, true, nil
}

func (r *Redis) Remove(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to remove featured entry: %w", err)
	}
	return nil
}

// PurgeExpiredBefore is a no-op: redis reclaims expired keys itself.
func (r *Redis) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}
