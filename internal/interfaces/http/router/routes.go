// Package router 提供 HTTP 路由配置
package router

import (
	"task-ai-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterAssistantRoutes 注册助手路由，无需登录
func RegisterAssistantRoutes(engine *gin.Engine, assistantHandler *handler.AssistantHandler) {
	engine.POST("/generate-task", assistantHandler.GenerateTask)
	engine.POST("/improve-content", assistantHandler.ImproveContent)
}

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, auth gin.HandlerFunc, h *RouterHandlers) {
	// 认证管理，refresh/logout 依赖 Cookie
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.RefreshToken)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// 用户
	users := v1.Group("/users", auth)
	{
		users.GET("/me", h.User.GetMe)
	}

	// 任务管理
	tasks := v1.Group("/tasks", auth)
	{
		tasks.GET("", h.Task.ListTasks)
		tasks.POST("", h.Task.CreateTask)
		tasks.GET("/tags", h.Task.ListTags)
		tasks.GET("/:id", h.Task.GetTask)
		tasks.PUT("/:id", h.Task.UpdateTask)
		tasks.DELETE("/:id", h.Task.DeleteTask)
	}
}
