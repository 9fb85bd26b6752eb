// Package handler 提供 HTTP 请求处理器
package handler

import (
	taskapp "task-ai-api/internal/application/task"
	"task-ai-api/internal/domain/repository"
	"task-ai-api/internal/interfaces/http/dto"
	"task-ai-api/internal/interfaces/http/middleware"
	apperrors "task-ai-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	svc *taskapp.Service
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(svc *taskapp.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ListTasks 获取任务列表
// @Summary 获取任务列表
// @Description 按创建时间倒序列出当前用户的任务，支持关键字与标签过滤
// @Tags Tasks
// @Produce json
// @Param q query string false "标题或内容关键字"
// @Param tags query string false "逗号分隔的标签，需全部命中"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[dto.TaskListResponse]
// @Router /v1/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	pageReq := dto.BindPage(c)
	filter := taskapp.ParseFilter(c.Query("q"), c.Query("tags"))

	result, err := h.svc.List(ctx, userID, filter, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}

	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, dto.ToTaskListResponse(result.Items), meta)
}

// CreateTask 创建任务
// @Summary 创建任务
// @Tags Tasks
// @Accept json
// @Produce json
// @Param body body dto.CreateTaskRequest true "任务信息"
// @Success 201 {object} dto.Response[dto.TaskResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}

	task, err := h.svc.Create(ctx, userID, req.ToCreateInput())
	if err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}
	dto.Created(c, dto.ToTaskResponse(task))
}

// GetTask 获取任务详情
// @Summary 获取任务详情
// @Tags Tasks
// @Produce json
// @Param id path string true "任务 ID"
// @Success 200 {object} dto.Response[dto.TaskResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	task, err := h.svc.Get(ctx, userID, dto.BindTaskID(c))
	if err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}
	dto.Success(c, dto.ToTaskResponse(task))
}

// UpdateTask 更新任务
// @Summary 更新任务
// @Description 未提供的字段保持不变，tags 传空数组表示清空
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "任务 ID"
// @Param body body dto.UpdateTaskRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.TaskResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}

	task, err := h.svc.Update(ctx, userID, dto.BindTaskID(c), req.ToUpdateInput())
	if err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}
	dto.Success(c, dto.ToTaskResponse(task))
}

// DeleteTask 删除任务
// @Summary 删除任务
// @Tags Tasks
// @Param id path string true "任务 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	if err := h.svc.Delete(ctx, userID, dto.BindTaskID(c)); err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}
	dto.NoContent(c)
}

// ListTags 获取用户用过的标签
// @Summary 获取标签列表
// @Tags Tasks
// @Produce json
// @Success 200 {object} dto.Response[dto.TagListResponse]
// @Router /v1/tasks/tags [get]
func (h *TaskHandler) ListTags(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	tags, err := h.svc.ListTags(ctx, userID)
	if err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}
	dto.Success(c, &dto.TagListResponse{Tags: tags})
}
