// Package task 实现任务的增删改查、标签规则与搜索
package task

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"

	"task-ai-api/internal/domain/entity"
	"task-ai-api/internal/domain/repository"
	apperrors "task-ai-api/pkg/errors"
	"task-ai-api/pkg/logger"
	"task-ai-api/pkg/metrics"
)

// Filter 任务搜索条件
type Filter = repository.TaskFilter

// ParseFilter 从查询参数构造搜索条件，tags 以逗号分隔
// 搜索时只去空白与去重，不套用标签的长度和数量限制。
func ParseFilter(q, tagsCSV string) Filter {
	f := Filter{Query: strings.TrimSpace(q)}
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(tagsCSV, ",") {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		f.Tags = append(f.Tags, tag)
	}
	return f
}

// CreateInput 创建任务参数
type CreateInput struct {
	Title   string
	Content *string
	Tags    []string
}

// UpdateInput 更新任务参数，nil 字段保持不变；Tags 为空切片表示清空标签
type UpdateInput struct {
	Title   *string
	Content *string
	Tags    []string
}

// Service 任务服务
type Service struct {
	tasks repository.TaskRepository
	tx    repository.Transactor
}

// NewService 创建任务服务
func NewService(tasks repository.TaskRepository, tx repository.Transactor) *Service {
	return &Service{tasks: tasks, tx: tx}
}

// Create 为用户创建任务
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (t *entity.Task, err error) {
	defer func() { record("create", err) }()

	t, err = entity.NewTask(userID, in.Title, in.Content, in.Tags)
	if err != nil {
		return nil, validationError(err)
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		logger.Error(ctx, "failed to create task", err, "user_id", userID)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create task")
	}
	return t, nil
}

// Get 获取用户的任务
func (s *Service) Get(ctx context.Context, userID, id string) (t *entity.Task, err error) {
	defer func() { record("get", err) }()
	return s.load(logger.WithContext(ctx, logger.TaskIDKey, id), userID, id)
}

// Update 部分更新任务，读取与写入在同一事务内完成
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (t *entity.Task, err error) {
	defer func() { record("update", err) }()
	ctx = logger.WithContext(ctx, logger.TaskIDKey, id)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := current.Apply(in.Title, in.Content, in.Tags); err != nil {
			return validationError(err)
		}
		if err := s.tasks.Update(ctx, current); err != nil {
			logger.Error(ctx, "failed to update task", err)
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update task")
		}
		t = current
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to update task")
	}
	return t, nil
}

// Delete 删除任务，不存在时返回 ErrTaskNotFound
func (s *Service) Delete(ctx context.Context, userID, id string) (err error) {
	defer func() { record("delete", err) }()
	ctx = logger.WithContext(ctx, logger.TaskIDKey, id)

	if !validID(id) {
		return apperrors.ErrTaskNotFound
	}
	deleted, err := s.tasks.Delete(ctx, userID, id)
	if err != nil {
		logger.Error(ctx, "failed to delete task", err)
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to delete task")
	}
	if !deleted {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// List 按创建时间倒序分页列出任务
func (s *Service) List(ctx context.Context, userID string, filter Filter, pagination repository.Pagination) (res *repository.PagedResult[*entity.Task], err error) {
	defer func() { record("list", err) }()

	res, err = s.tasks.List(ctx, userID, filter, pagination)
	if err != nil {
		logger.Error(ctx, "failed to list tasks", err, "user_id", userID)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list tasks")
	}
	return res, nil
}

// ListTags 列出用户用过的全部标签
func (s *Service) ListTags(ctx context.Context, userID string) (tags []string, err error) {
	defer func() { record("list_tags", err) }()

	tags, err = s.tasks.ListTags(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to list tags", err, "user_id", userID)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list tags")
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *Service) load(ctx context.Context, userID, id string) (*entity.Task, error) {
	if !validID(id) {
		return nil, apperrors.ErrTaskNotFound
	}
	t, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		logger.Error(ctx, "failed to get task", err)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get task")
	}
	if t == nil {
		return nil, apperrors.ErrTaskNotFound
	}
	return t, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validationError(err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.CodeValidationFailed, err.Error())
}

func asAppError(err error, message string) *apperrors.AppError {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, message)
}

func record(op string, err error) {
	status := "success"
	if err != nil {
		status = string(apperrors.AsAppError(err).Code)
	}
	metrics.TaskOperationsTotal.WithLabelValues(op, status).Inc()
}
