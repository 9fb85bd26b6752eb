package repository

import (
	"context"
	"time"
)

// TokenStore 已注销 Token 的存储
type TokenStore interface {
	// Revoke 原子地将 jti 标记为已注销，ttl 到期后自动清除
	// 返回 false 表示 jti 已被其他请求注销
	Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error)

	// IsRevoked 检查 jti 是否已注销
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
