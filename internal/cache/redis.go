package cache

import (
	"context"
	"fmt"
	"time"

	"tracker-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Dashboard cache keys
const dashboardKeyFmt = "dashboard:%s"

var client *redis.Client

// Init initializes the Redis connection. The cache is optional; a failed
// connection leaves the client nil and every helper degrades to a no-op.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetCachedDashboard returns a cached dashboard payload for the filter key.
func GetCachedDashboard(ctx context.Context, filterKey string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(dashboardKeyFmt, filterKey)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheDashboard stores a dashboard payload with a TTL.
func CacheDashboard(ctx context.Context, filterKey string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(dashboardKeyFmt, filterKey), data, ttl)
}

// InvalidateDashboard clears every cached dashboard payload. Called after each
// reconcile so balance figures never go stale past one reconciliation.
func InvalidateDashboard(ctx context.Context) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, "dashboard:*").Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}
