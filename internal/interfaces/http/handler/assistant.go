// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"task-ai-api/internal/application/assistant"
	"task-ai-api/internal/interfaces/http/dto"
	apperrors "task-ai-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AssistantHandler 助手处理器
// 响应体保持 {title, content} / {improvedContent, type} / {error} 的简单形状。
type AssistantHandler struct {
	svc *assistant.Service
}

// NewAssistantHandler 创建助手处理器
func NewAssistantHandler(svc *assistant.Service) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// GenerateTask 根据描述生成任务草稿
// @Summary 生成任务
// @Tags Assistant
// @Accept json
// @Produce json
// @Param body body dto.GenerateTaskRequest true "任务描述"
// @Success 200 {object} dto.GenerateTaskResponse
// @Failure 400 {object} dto.AssistantErrorResponse
// @Failure 429 {object} dto.AssistantErrorResponse
// @Failure 500 {object} dto.AssistantErrorResponse
// @Router /generate-task [post]
func (h *AssistantHandler) GenerateTask(c *gin.Context) {
	var req dto.GenerateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 非法 JSON 或字段类型不符，按缺少输入处理
		req = dto.GenerateTaskRequest{}
	}

	res, err := h.svc.GenerateTask(c.Request.Context(), req.Prompt)
	if err != nil {
		assistantError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenerateTaskResponse{
		Title:   res.Title,
		Content: res.Content,
	})
}

// ImproveContent 改写或总结任务内容
// @Summary 改写内容
// @Tags Assistant
// @Accept json
// @Produce json
// @Param body body dto.ImproveContentRequest true "待改写内容"
// @Success 200 {object} dto.ImproveContentResponse
// @Failure 400 {object} dto.AssistantErrorResponse
// @Failure 429 {object} dto.AssistantErrorResponse
// @Failure 500 {object} dto.AssistantErrorResponse
// @Router /improve-content [post]
func (h *AssistantHandler) ImproveContent(c *gin.Context) {
	var req dto.ImproveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = dto.ImproveContentRequest{}
	}

	res, err := h.svc.ImproveContent(c.Request.Context(), req.Content)
	if err != nil {
		assistantError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ImproveContentResponse{
		ImprovedContent: res.ImprovedContent,
		Type:            string(res.Type),
	})
}

func assistantError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.AssistantErrorResponse{Error: appErr.Message})
}
