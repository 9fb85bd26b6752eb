// Package main 运维命令行：数据库迁移与账号初始化
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"task-ai-api/internal/config"
	"task-ai-api/internal/wire"
	"task-ai-api/pkg/logger"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Operational commands for task-ai-api",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createUserCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withDataLayer 加载配置并初始化 PostgreSQL 数据层
func withDataLayer(ctx context.Context, fn func(ctx context.Context, data *wire.PostgresOnlyDataLayer) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Observability.Logging.Level, "text")

	data, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize data layer: %w", err)
	}
	defer cleanup()

	return fn(ctx, data)
}
