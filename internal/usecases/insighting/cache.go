package insighting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const cacheKeyPrefix = "insights:"

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisCache{client: client, ttl: ttl}
}

// CacheKey segue <organização>:<janela>:<categoria>:<conta>
func CacheKey(organizationUUID string, opts domain.InsightOptions, kind domain.MetricCategory, accountID string) string {
	return cacheKeyPrefix + strings.Join([]string{organizationUUID, window(opts), string(kind), accountID}, ":")
}

func window(opts domain.InsightOptions) string {
	if opts.TimeRange != nil {
		return opts.TimeRange.Since + "_" + opts.TimeRange.Until
	}
	return opts.DatePreset
}

func (c *redisCache) Get(ctx context.Context, key string) ([]domain.RawInsightRecord, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("erro ao ler cache de insights: %w", err)
	}

	var records []domain.RawInsightRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("erro ao decodificar cache de insights: %w", err)
	}
	return records, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, records []domain.RawInsightRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("erro ao serializar cache de insights: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("erro ao gravar cache de insights: %w", err)
	}
	return nil
}
