package redis

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TokenStore 已注销 Token 的存储，键随 Token 过期自动清除
type TokenStore struct {
	client *Client
}

// NewTokenStore 创建 Token 注销存储
func NewTokenStore(client *Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) key(jti string) string {
	return s.client.Key("revoked_token", jti)
}

// Revoke 用 SETNX 注销 jti，同一 jti 只有一个调用方返回 true
// ttl 不为正时 Token 已过期，无需记录
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" || ttl <= 0 {
		return true, nil
	}
	ctx, span := tracer.Start(ctx, "redis.TokenStore.Revoke",
		trace.WithAttributes(attribute.Int64("redis.ttl_ms", ttl.Milliseconds())))
	defer span.End()

	won, err := s.client.rdb.SetNX(ctx, s.key(jti), "1", ttl).Result()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}
	span.SetAttributes(attribute.Bool("redis.revoked_now", won))
	return won, nil
}

// IsRevoked 检查 jti 是否已注销
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	ctx, span := tracer.Start(ctx, "redis.TokenStore.IsRevoked")
	defer span.End()

	n, err := s.client.rdb.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}
