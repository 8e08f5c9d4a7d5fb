package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/chirper/pkg/logger"
)

// ProfileStats 主页计数快照（帖子数 / 粉丝数 / 关注数）
type ProfileStats struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Follows   int64 `json:"follows"`
}

// ProfileCache 主页计数缓存；缓存失败只影响性能，不影响正确性
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*ProfileStats, bool)
	Set(ctx context.Context, userID string, stats *ProfileStats)
	Invalidate(ctx context.Context, userIDs ...string)
}

// RedisProfileCache 基于 redis 的实现，key: profile:stats:{userID}
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisProfileCache{client: client, ttl: ttl}
}

func statsKey(userID string) string { return fmt.Sprintf("profile:stats:%s", userID) }

func (c *RedisProfileCache) Get(ctx context.Context, userID string) (*ProfileStats, bool) {
	data, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("profile cache get failed", zap.String("user", userID), zap.Error(err))
		}
		c.misses.Add(1)
		return nil, false
	}
	var out ProfileStats
	if err := json.Unmarshal(data, &out); err != nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &out, true
}

func (c *RedisProfileCache) Set(ctx context.Context, userID string, stats *ProfileStats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey(userID), payload, c.ttl).Err(); err != nil {
		logger.Warn("profile cache set failed", zap.String("user", userID), zap.Error(err))
	}
}

// Invalidate 一次 pipeline 删除多个 key
func (c *RedisProfileCache) Invalidate(ctx context.Context, userIDs ...string) {
	if len(userIDs) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for _, id := range userIDs {
		pipe.Del(ctx, statsKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("profile cache invalidate failed", zap.Strings("users", userIDs), zap.Error(err))
	}
}

// Counters 命中 / 未命中次数
func (c *RedisProfileCache) Counters() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Nop 未配置 redis 时使用
type Nop struct{}

func (Nop) Get(context.Context, string) (*ProfileStats, bool) { return nil, false }
func (Nop) Set(context.Context, string, *ProfileStats)        {}
func (Nop) Invalidate(context.Context, ...string)             {}
