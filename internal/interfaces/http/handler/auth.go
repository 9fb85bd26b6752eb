// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"time"

	"task-ai-api/internal/domain/entity"
	"task-ai-api/internal/domain/repository"
	"task-ai-api/internal/interfaces/http/dto"
	"task-ai-api/internal/interfaces/http/middleware"
	apperrors "task-ai-api/pkg/errors"
	"task-ai-api/pkg/logger"
	"task-ai-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/v1/auth"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	jwtManager *utils.JWTManager
	cfg        middleware.AuthConfig
	userRepo   repository.UserRepository
	tokenStore repository.TokenStore
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg middleware.AuthConfig, userRepo repository.UserRepository, tokenStore repository.TokenStore) *AuthHandler {
	return &AuthHandler{
		jwtManager: utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		cfg:        cfg,
		userRepo:   userRepo,
		tokenStore: tokenStore,
	}
}

// Register 注册
// @Summary 用户注册
// @Description 使用邮箱和密码创建账号
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.AuthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	if len(req.Password) < entity.MinPasswordLength {
		dto.AppError(c, apperrors.ErrPasswordTooShort)
		return
	}
	if req.Password != req.ConfirmPassword {
		dto.AppError(c, apperrors.ErrPasswordMismatch)
		return
	}

	exists, err := h.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to check email existence", err)
		dto.AppError(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "registration failed"))
		return
	}
	if exists {
		dto.AppError(c, apperrors.ErrEmailTaken)
		return
	}

	user := entity.NewUser(req.Email, req.Name)
	if err := user.SetPassword(req.Password); err != nil {
		logger.Error(ctx, "failed to hash password", err)
		dto.AppError(c, apperrors.ErrInternalError.WithError(err))
		return
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		logger.Error(ctx, "failed to create user", err)
		dto.AppError(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "registration failed"))
		return
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}
	dto.Created(c, resp)
}

// Login 登录
// @Summary 用户登录
// @Description 验证邮箱密码并返回双 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.AppError(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "login failed"))
		return
	}

	if user == nil || !user.CheckPassword(req.Password) {
		dto.AppError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if err := h.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to update last login time", "error", err, "user_id", user.ID)
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}
	dto.Success(c, resp)
}

// RefreshToken 用 Cookie 中的 RefreshToken 换发新的双 Token，旧 RefreshToken 随即注销
// 同一 RefreshToken 并发刷新时只有抢到注销的请求能拿到新 Token
// @Summary 刷新 Token
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := c.Request.Context()

	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		dto.AppError(c, apperrors.ErrTokenMissing.WithDetail("refresh token cookie not set"))
		return
	}

	claims, err := h.jwtManager.ParseToken(refreshToken)
	if err != nil {
		dto.AppError(c, tokenError(err))
		return
	}
	if claims.Type != utils.TokenTypeRefresh {
		dto.AppError(c, apperrors.ErrTokenInvalid.WithDetail("refresh token required"))
		return
	}

	revoked, err := h.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Error(ctx, "failed to check refresh token", err)
		dto.AppError(c, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to refresh token"))
		return
	}
	if revoked {
		dto.AppError(c, apperrors.ErrTokenRevoked)
		return
	}

	user, err := h.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.AppError(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to refresh token"))
		return
	}
	if user == nil {
		dto.AppError(c, apperrors.ErrTokenInvalid.WithDetail("user not found"))
		return
	}

	won, err := h.tokenStore.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		logger.Error(ctx, "failed to revoke refresh token", err)
		dto.AppError(c, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to refresh token"))
		return
	}
	if !won {
		logger.Warn(ctx, "refresh token already rotated by a concurrent request", "user_id", user.ID)
		dto.AppError(c, apperrors.ErrTokenRevoked)
		return
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		dto.AppError(c, apperrors.AsAppError(err))
		return
	}
	dto.Success(c, resp)
}

// Logout 登出：注销 RefreshToken 并清除 Cookie
// @Summary 用户登出
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.Response[map[string]string]
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if refreshToken, err := c.Cookie(refreshCookieName); err == nil && refreshToken != "" {
		if claims, err := h.jwtManager.ParseToken(refreshToken); err == nil && claims.Type == utils.TokenTypeRefresh {
			// 已被注销也视为登出成功
			if _, err := h.tokenStore.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
				logger.Error(ctx, "failed to revoke refresh token", err)
				dto.AppError(c, apperrors.Wrap(err, apperrors.CodeCacheError, "logout failed"))
				return
			}
		}
	}

	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", h.cfg.SecureCookie, true)
	dto.Success(c, gin.H{"message": "logged out"})
}

// issueTokens 生成双 Token 并把 RefreshToken 写入 HttpOnly Cookie
func (h *AuthHandler) issueTokens(c *gin.Context, user *entity.User) (*dto.AuthResponse, error) {
	tokens, err := h.jwtManager.GenerateTokenPair(user.ID, user.Email, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to generate tokens", err, "user_id", user.ID)
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to generate tokens")
	}

	c.SetCookie(refreshCookieName, tokens.RefreshToken, int(h.cfg.RefreshTTL.Seconds()), refreshCookiePath, "", h.cfg.SecureCookie, true)

	return &dto.AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int(h.cfg.AccessTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	}, nil
}

// tokenError 将 JWT 解析错误转换为对应的 AppError
func tokenError(err error) *apperrors.AppError {
	if errors.Is(err, utils.ErrExpiredToken) {
		return apperrors.ErrTokenExpired
	}
	return apperrors.ErrTokenInvalid
}
