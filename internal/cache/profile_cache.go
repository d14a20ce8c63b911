// Package cache keeps rendered public profiles in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/outdoortrails/trails-hub-backend/internal/app/model"
	"github.com/outdoortrails/trails-hub-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "profile:public:"

type ProfileCache interface {
	// Get returns (nil, false, nil) on a miss
	Get(ctx context.Context, username string) (*model.PublicProfile, bool, error)
	Set(ctx context.Context, username string, profile *model.PublicProfile) error
	Invalidate(ctx context.Context, usernames ...string) error
}

func profileKey(username string) string {
	return profileKeyPrefix + username
}

type redisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) ProfileCache {
	return &redisProfileCache{client: client, ttl: ttl}
}

func (c *redisProfileCache) Get(ctx context.Context, username string) (*model.PublicProfile, bool, error) {
	raw, err := c.client.Get(ctx, profileKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var profile model.PublicProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		logger.Warn("Dropping unreadable cached profile", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		_ = c.client.Del(ctx, profileKey(username)).Err()
		return nil, false, nil
	}
	return &profile, true, nil
}

func (c *redisProfileCache) Set(ctx context.Context, username string, profile *model.PublicProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, profileKey(username), raw, c.ttl).Err()
}

func (c *redisProfileCache) Invalidate(ctx context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}
	keys := make([]string, 0, len(usernames))
	for _, u := range usernames {
		keys = append(keys, profileKey(u))
	}
	return c.client.Del(ctx, keys...).Err()
}

// NoopProfileCache never stores anything; used when Redis is not configured
type NoopProfileCache struct{}

func (NoopProfileCache) Get(context.Context, string) (*model.PublicProfile, bool, error) {
	return nil, false, nil
}

func (NoopProfileCache) Set(context.Context, string, *model.PublicProfile) error { return nil }

func (NoopProfileCache) Invalidate(context.Context, ...string) error { return nil }
