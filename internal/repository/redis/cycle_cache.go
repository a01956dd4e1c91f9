/**
 * 决策仓库层:周期结果缓存
 * @author: sun977
 * @date: 2026.03.18
 * @description: 最近一轮决策周期汇总的Redis缓存(适合多实例部署)
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	decisionModel "chainmaster/internal/model/decision"

	"github.com/go-redis/redis/v8"
)

// CycleCacheRepository 决策周期结果Redis缓存库
type CycleCacheRepository struct {
	client *redis.Client
}

// NewCycleCacheRepository 创建周期缓存库实例
func NewCycleCacheRepository(client *redis.Client) *CycleCacheRepository {
	return &CycleCacheRepository{
		client: client,
	}
}

// StoreLatestCycle 缓存最近一轮周期汇总
func (r *CycleCacheRepository) StoreLatestCycle(ctx context.Context, summary *decisionModel.CycleSummary, expiration time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal cycle summary: %w", err)
	}

	err = r.client.Set(ctx, r.getLatestCycleKey(), data, expiration).Err()
	if err != nil {
		return fmt.Errorf("failed to store cycle summary: %w", err)
	}

	return nil
}

// GetLatestCycle 获取最近一轮周期汇总
// 缓存不存在时返回 nil, nil，让业务层处理
func (r *CycleCacheRepository) GetLatestCycle(ctx context.Context) (*decisionModel.CycleSummary, error) {
	data, err := r.client.Get(ctx, r.getLatestCycleKey()).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cycle summary: %w", err)
	}

	var summary decisionModel.CycleSummary
	err = json.Unmarshal([]byte(data), &summary)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal cycle summary: %w", err)
	}

	return &summary, nil
}

// DeleteLatestCycle 删除缓存的周期汇总(网络重置时调用)
func (r *CycleCacheRepository) DeleteLatestCycle(ctx context.Context) error {
	err := r.client.Del(ctx, r.getLatestCycleKey()).Err()
	if err != nil {
		return fmt.Errorf("failed to delete cycle summary: %w", err)
	}
	return nil
}

// getLatestCycleKey 生成周期缓存键[KEY:chainmaster:cycle:latest]
func (r *CycleCacheRepository) getLatestCycleKey() string {
	return "chainmaster:cycle:latest"
}
