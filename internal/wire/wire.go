//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"task-ai-api/internal/application/assistant"
	taskapp "task-ai-api/internal/application/task"
	"task-ai-api/internal/config"
	"task-ai-api/internal/domain/repository"
	"task-ai-api/internal/domain/service"
	"task-ai-api/internal/infrastructure/llm"
	"task-ai-api/internal/infrastructure/persistence/postgres"
	"task-ai-api/internal/infrastructure/persistence/redis"
	"task-ai-api/internal/interfaces/http/handler"
	"task-ai-api/internal/interfaces/http/router"
)

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 taskctl）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		LLMSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewTaskRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.TaskRepository), new(*postgres.TaskRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewTokenStore,
	wire.Bind(new(repository.TokenStore), new(*redis.TokenStore)),
)

// LLMSet 模型调用提供者集合
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	ProvideChatCompleter,
	wire.Bind(new(service.Completer), new(*llm.ChatCompleter)),
	wire.Bind(new(service.CredentialChecker), new(*llm.ChatCompleter)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideAuthConfig,
	assistant.NewService,
	taskapp.NewService,
	ProvideHealthHandler,
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewTaskHandler,
	handler.NewAssistantHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
