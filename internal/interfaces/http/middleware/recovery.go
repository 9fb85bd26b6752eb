// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"runtime/debug"

	"task-ai-api/internal/interfaces/http/dto"
	apperrors "task-ai-api/pkg/errors"
	"task-ai-api/pkg/logger"
	"task-ai-api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Recovery Panic 恢复中间件，返回统一错误结构，不暴露堆栈
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			path := c.FullPath()
			if path == "" {
				path = "unmatched"
			}
			metrics.HTTPPanicsTotal.WithLabelValues(path).Inc()

			// c.Request 已被后续中间件替换，日志会带上 request_id/user_id
			logger.Error(c.Request.Context(), "panic recovered",
				fmt.Errorf("%v", rec),
				"stack", string(debug.Stack()),
				"path", path,
				"method", c.Request.Method,
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			dto.AbortWithAppError(c, apperrors.ErrInternalError)
		}()

		c.Next()
	}
}
