// Package handler 提供 HTTP 请求处理器
package handler

import (
	"task-ai-api/internal/domain/repository"
	"task-ai-api/internal/interfaces/http/dto"
	"task-ai-api/internal/interfaces/http/middleware"
	apperrors "task-ai-api/pkg/errors"
	"task-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
	}
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags Users
// @Produce json
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.AppError(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get user info"))
		return
	}

	if user == nil {
		dto.AppError(c, apperrors.ErrUserNotFound)
		return
	}

	dto.Success(c, dto.ToUserResponse(user))
}
