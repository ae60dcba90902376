package experience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"experiencehub/models"
	"experiencehub/utils"
)

var ErrCacheMiss = errors.New("cache miss")

const listKey = utils.CatalogCachePrefix + "all"

// CatalogCache holds the experience listing in Redis. Every call goes through a
// circuit breaker so a Redis outage degrades to direct reads instead of adding
// a timeout to each request.
type CatalogCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	baseTTL time.Duration
	logger  *zap.Logger
}

func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        "catalog-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &CatalogCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		baseTTL: ttl,
		logger:  logger,
	}
}

func (c *CatalogCache) GetList(ctx context.Context) ([]models.Experience, error) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, listKey).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var experiences []models.Experience
	if err := json.Unmarshal(data, &experiences); err != nil {
		return nil, fmt.Errorf("unmarshal experiences failed: %w", err)
	}
	return experiences, nil
}

func (c *CatalogCache) SetList(ctx context.Context, experiences []models.Experience) error {
	data, err := json.Marshal(experiences)
	if err != nil {
		return fmt.Errorf("marshal experiences failed: %w", err)
	}

	ttl := c.baseTTL + time.Duration(rand.Int63n(int64(utils.CatalogCacheJitter)))
	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, listKey, data, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, listKey).Err()
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *CatalogCache) State() gobreaker.State {
	return c.breaker.State()
}
