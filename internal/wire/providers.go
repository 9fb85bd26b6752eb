// Package wire 提供依赖注入配置
package wire

import (
	"task-ai-api/internal/config"
	"task-ai-api/internal/infrastructure/llm"
	"task-ai-api/internal/infrastructure/persistence/postgres"
	"task-ai-api/internal/infrastructure/persistence/redis"
	"task-ai-api/internal/interfaces/http/handler"
	"task-ai-api/internal/interfaces/http/middleware"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 taskctl）
type PostgresOnlyDataLayer struct {
	PgClient  *postgres.Client
	TxManager *postgres.TxManager
	UserRepo  *postgres.UserRepository
	TaskRepo  *postgres.TaskRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideChatCompleter 提供默认提供商的文本补全器
func ProvideChatCompleter(cfg *config.Config, factory *llm.EinoFactory) *llm.ChatCompleter {
	return llm.NewChatCompleter(factory, factory, cfg.LLM.DefaultProvider)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, redisClient *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(pg, redisClient, cfg.App.Version)
}

// ProvideAuthConfig 提供认证配置
func ProvideAuthConfig(cfg *config.Config) middleware.AuthConfig {
	return middleware.AuthConfig{
		Secret:       cfg.Security.JWT.Secret,
		Issuer:       cfg.Security.JWT.Issuer,
		AccessTTL:    cfg.Security.JWT.Expiration,
		RefreshTTL:   cfg.Security.JWT.RefreshExpiration,
		SecureCookie: cfg.Security.JWT.SecureCookie,
	}
}
