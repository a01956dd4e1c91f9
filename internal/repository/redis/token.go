/**
 * 用户仓库层:令牌失效数据访问
 * @author: sun977
 * @date: 2026.03.18
 * @description: 已注销访问令牌的Redis黑名单(适合多实例部署)
 * @func:单纯数据访问,不应该包含业务逻辑
 */
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenRepository 令牌黑名单Redis存储库
// 注销时按JTI写入，TTL与令牌剩余有效期一致，过期自动清理
type TokenRepository struct {
	client *redis.Client
}

// NewTokenRepository 创建令牌黑名单存储库实例
func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

// RevokeToken 将令牌JTI加入黑名单
func (r *TokenRepository) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// 令牌已过期，无需入黑名单
		return nil
	}

	err := r.client.Set(ctx, r.getRevokedTokenKey(jti), "1", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsTokenRevoked 检查令牌JTI是否已被注销
func (r *TokenRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := r.client.Get(ctx, r.getRevokedTokenKey(jti)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}

// getRevokedTokenKey 生成黑名单键[KEY:chainmaster:token:revoked:{jti}]
func (r *TokenRepository) getRevokedTokenKey(jti string) string {
	return fmt.Sprintf("chainmaster:token:revoked:%s", jti)
}
