// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"experiencehub/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client.
var CacheClient *redis.Client

// InitCache connects the Redis cache client. It returns nil when no Redis
// address is configured; callers then run without a cache.
func InitCache() (*redis.Client, error) {
	if !config.AppConfig.RedisEnabled() {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (cache): %w", err)
	}
	CacheClient = client
	return client, nil
}

// GetCacheClient returns the generic cache client, or nil if Redis is disabled.
func GetCacheClient() *redis.Client {
	return CacheClient
}
