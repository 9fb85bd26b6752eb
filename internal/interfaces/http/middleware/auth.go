// Package middleware 提供 HTTP 中间件
package middleware

import (
	"errors"
	"strings"
	"time"

	"task-ai-api/internal/interfaces/http/dto"
	apperrors "task-ai-api/pkg/errors"
	"task-ai-api/pkg/logger"
	"task-ai-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret JWT 密钥
	Secret string
	// Issuer JWT 签发者
	Issuer string
	// AccessTTL AccessToken 有效期
	AccessTTL time.Duration
	// RefreshTTL RefreshToken 有效期
	RefreshTTL time.Duration
	// SecureCookie RefreshToken Cookie 是否仅限 HTTPS
	SecureCookie bool
}

// Auth 认证中间件，只接受 AccessToken
func Auth(cfg AuthConfig) gin.HandlerFunc {
	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			dto.AbortWithAppError(c, apperrors.ErrTokenMissing.WithDetail("missing authorization header"))
			return
		}

		// 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			dto.AbortWithAppError(c, apperrors.ErrTokenInvalid.WithDetail("invalid authorization format"))
			return
		}

		claims, err := jwtManager.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				dto.AbortWithAppError(c, apperrors.ErrTokenExpired)
				return
			}
			dto.AbortWithAppError(c, apperrors.ErrTokenInvalid)
			return
		}

		if claims.Type != utils.TokenTypeAccess {
			dto.AbortWithAppError(c, apperrors.ErrTokenInvalid.WithDetail("access token required"))
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUserIDFromGin 从 Gin Context 中获取用户 ID
func GetUserIDFromGin(c *gin.Context) string {
	return c.GetString("user_id")
}
