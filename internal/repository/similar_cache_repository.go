// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"autohub-go/internal/similarity"
)

// SimilarCacheRepository 缓存管线预计算好的相似车源列表。
// 这是跨请求的只读缓存；BatchRank 自身的调用内缓存与它无关。
type SimilarCacheRepository interface {
	Get(ctx context.Context, listingID string) ([]similarity.Match, bool, error)
	Set(ctx context.Context, listingID string, matches []similarity.Match, ttl time.Duration) error
	SetBatch(ctx context.Context, results map[string][]similarity.Match, ttl time.Duration) error
	Invalidate(ctx context.Context, listingID string) error
}

type redisSimilarCacheRepository struct {
	redisClient *redis.Client
}

// NewSimilarCacheRepository 创建一个新的 SimilarCacheRepository 实例。
func NewSimilarCacheRepository(redisClient *redis.Client) SimilarCacheRepository {
	return &redisSimilarCacheRepository{redisClient: redisClient}
}

func similarKey(listingID string) string {
	return fmt.Sprintf("similar:%s", listingID)
}

// Get 读取一条缓存，第二个返回值表示是否命中。
func (r *redisSimilarCacheRepository) Get(ctx context.Context, listingID string) ([]similarity.Match, bool, error) {
	jsonData, err := r.redisClient.Get(ctx, similarKey(listingID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get similar cache: %w", err)
	}
	var matches []similarity.Match
	if err := json.Unmarshal([]byte(jsonData), &matches); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal similar cache: %w", err)
	}
	return matches, true, nil
}

// Set 写入一条缓存。
func (r *redisSimilarCacheRepository) Set(ctx context.Context, listingID string, matches []similarity.Match, ttl time.Duration) error {
	jsonData, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to marshal similar cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, similarKey(listingID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set similar cache: %w", err)
	}
	return nil
}

// SetBatch 逐条写入一批缓存，单条失败即返回。
func (r *redisSimilarCacheRepository) SetBatch(ctx context.Context, results map[string][]similarity.Match, ttl time.Duration) error {
	for listingID, matches := range results {
		if err := r.Set(ctx, listingID, matches, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate 删除一条缓存。
func (r *redisSimilarCacheRepository) Invalidate(ctx context.Context, listingID string) error {
	return r.redisClient.Del(ctx, similarKey(listingID)).Err()
}
