// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	taskapp "task-ai-api/internal/application/task"
	"task-ai-api/internal/domain/entity"
)

// CreateTaskRequest 创建任务请求，字段规则由任务服务校验
type CreateTaskRequest struct {
	Title   string   `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

// UpdateTaskRequest 更新任务请求，未出现的字段保持不变
type UpdateTaskRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskListResponse 任务列表响应
type TaskListResponse struct {
	Items []*TaskResponse `json:"items"`
}

// TagListResponse 标签列表响应
type TagListResponse struct {
	Tags []string `json:"tags"`
}

// ToCreateInput 转换为服务层参数
func (r *CreateTaskRequest) ToCreateInput() taskapp.CreateInput {
	return taskapp.CreateInput{
		Title:   r.Title,
		Content: r.Content,
		Tags:    r.Tags,
	}
}

// ToUpdateInput 转换为服务层参数；tags 显式给出时即使为空也表示清空
func (r *UpdateTaskRequest) ToUpdateInput() taskapp.UpdateInput {
	in := taskapp.UpdateInput{
		Title:   r.Title,
		Content: r.Content,
	}
	if r.Tags != nil {
		in.Tags = *r.Tags
		if in.Tags == nil {
			in.Tags = []string{}
		}
	}
	return in
}

// ToTaskResponse 实体转换为响应
func ToTaskResponse(t *entity.Task) *TaskResponse {
	if t == nil {
		return nil
	}
	tags := []string(t.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Content:   t.Content,
		Tags:      tags,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTaskListResponse 实体列表转换为响应
func ToTaskListResponse(tasks []*entity.Task) *TaskListResponse {
	items := make([]*TaskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = ToTaskResponse(t)
	}
	return &TaskListResponse{Items: items}
}
