package repository

import (
	"context"
	"strings"

	"task-ai-api/internal/domain/entity"
)

// TaskFilter 任务搜索条件
// Query 为标题或内容的大小写不敏感子串匹配；Tags 要求任务同时带有全部标签。
type TaskFilter struct {
	Query string
	Tags  []string
}

// IsEmpty 没有任何条件
func (f TaskFilter) IsEmpty() bool {
	return strings.TrimSpace(f.Query) == "" && len(f.Tags) == 0
}

// Match 在内存中判断任务是否满足条件，与仓储的 SQL 条件等价
func (f TaskFilter) Match(t *entity.Task) bool {
	if t == nil {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.ContentText()), q) {
			return false
		}
	}
	for _, tag := range f.Tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}

// TaskRepository 任务仓储接口
// 所有方法都按 userID 限定范围，查询不到记录时返回 (nil, nil)。
type TaskRepository interface {
	// Create 创建任务
	Create(ctx context.Context, task *entity.Task) error

	// GetByID 获取用户的单个任务
	GetByID(ctx context.Context, userID, id string) (*entity.Task, error)

	// Update 保存任务的标题、内容与标签
	Update(ctx context.Context, task *entity.Task) error

	// Delete 删除任务，返回是否有记录被删除
	Delete(ctx context.Context, userID, id string) (bool, error)

	// List 按创建时间倒序分页列出任务
	List(ctx context.Context, userID string, filter TaskFilter, pagination Pagination) (*PagedResult[*entity.Task], error)

	// ListTags 列出用户使用过的全部标签（去重、按字母排序）
	ListTags(ctx context.Context, userID string) ([]string, error)
}
