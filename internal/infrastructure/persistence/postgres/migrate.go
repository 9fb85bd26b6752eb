package postgres

import (
	"context"
	"fmt"

	"task-ai-api/internal/domain/entity"
)

// Migrate 创建或更新表结构
func (c *Client) Migrate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.Migrate")
	defer span.End()

	db := c.db.WithContext(ctx)
	if err := db.AutoMigrate(&entity.User{}, &entity.Task{}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	// 标签包含查询（tags @> ...）依赖 GIN 索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_tags ON tasks USING GIN (tags)").Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create tag index: %w", err)
	}
	return nil
}
