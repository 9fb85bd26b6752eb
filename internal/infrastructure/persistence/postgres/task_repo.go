package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"task-ai-api/internal/domain/entity"
	"task-ai-api/internal/domain/repository"
)

// TaskRepository 任务仓储实现
type TaskRepository struct {
	client *Client
}

// NewTaskRepository 创建任务仓储
func NewTaskRepository(client *Client) *TaskRepository {
	return &TaskRepository{client: client}
}

// Create 创建任务
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	ctx, span := tracer.Start(ctx, "postgres.TaskRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(task).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID 获取用户的单个任务
func (r *TaskRepository) GetByID(ctx context.Context, userID, id string) (*entity.Task, error) {
	ctx, span := tracer.Start(ctx, "postgres.TaskRepository.GetByID")
	defer span.End()

	var task entity.Task
	if err := getDB(ctx, r.client.db).First(&task, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// Update 保存任务的标题、内容与标签
func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) error {
	ctx, span := tracer.Start(ctx, "postgres.TaskRepository.Update")
	defer span.End()

	task.UpdatedAt = time.Now()
	err := getDB(ctx, r.client.db).Model(&entity.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]interface{}{
			"title":      task.Title,
			"content":    task.Content,
			"tags":       task.Tags,
			"updated_at": task.UpdatedAt,
		}).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete 删除任务
func (r *TaskRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.TaskRepository.Delete")
	defer span.End()

	res := getDB(ctx, r.client.db).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Task{})
	if res.Error != nil {
		span.RecordError(res.Error)
		return false, fmt.Errorf("failed to delete task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// List 按创建时间倒序分页列出任务
func (r *TaskRepository) List(ctx context.Context, userID string, filter repository.TaskFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Task], error) {
	ctx, span := tracer.Start(ctx, "postgres.TaskRepository.List")
	defer span.End()

	query := func() *gorm.DB {
		return applyTaskFilter(getDB(ctx, r.client.db).Model(&entity.Task{}).Where("user_id = ?", userID), filter)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks := make([]*entity.Task, 0, pagination.Limit())
	if err := query().Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&tasks).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return repository.NewPagedResult(tasks, total, pagination), nil
}

// ListTags 列出用户使用过的全部标签
func (r *TaskRepository) ListTags(ctx context.Context, userID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "postgres.TaskRepository.ListTags")
	defer span.End()

	tags := make([]string, 0)
	err := getDB(ctx, r.client.db).
		Raw("SELECT DISTINCT unnest(tags) AS tag FROM tasks WHERE user_id = ? ORDER BY tag", userID).
		Scan(&tags).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func applyTaskFilter(db *gorm.DB, filter repository.TaskFilter) *gorm.DB {
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		db = db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	if len(filter.Tags) > 0 {
		db = db.Where("tags @> ?", pq.StringArray(filter.Tags))
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，使查询按字面子串匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
