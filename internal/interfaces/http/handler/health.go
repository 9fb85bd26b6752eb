// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"task-ai-api/internal/infrastructure/persistence/postgres"
	"task-ai-api/internal/infrastructure/persistence/redis"
)

// HealthChecker 可探活的依赖
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version string
	names   []string
	checks  map[string]HealthChecker
}

// NewHealthHandler 创建健康检查处理器，Postgres 与 Redis 均为必需依赖
func NewHealthHandler(pg *postgres.Client, redisClient *redis.Client, version string) *HealthHandler {
	checks := map[string]HealthChecker{
		"postgres": nil,
		"redis":    nil,
	}
	if pg != nil {
		checks["postgres"] = pg
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	return newHealthHandler(version, checks)
}

func newHealthHandler(version string, checks map[string]HealthChecker) *HealthHandler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return &HealthHandler{version: version, names: names, checks: checks}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口，并发探测全部依赖
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var mu sync.Mutex
	checks := make(map[string]*readinessCheck, len(h.names))
	ready := true

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range h.names {
		name, checker := name, h.checks[name]
		g.Go(func() error {
			result := &readinessCheck{Status: "ok"}
			if checker == nil {
				result.Status = "missing"
				result.Error = name + " client not configured"
			} else {
				start := time.Now()
				err := checker.HealthCheck(gctx)
				result.LatencyMs = time.Since(start).Milliseconds()
				if err != nil {
					result.Status = "error"
					result.Error = err.Error()
				}
			}

			mu.Lock()
			defer mu.Unlock()
			checks[name] = result
			if result.Status != "ok" {
				ready = false
			}
			// 单个依赖失败不取消其他探测，保证响应里每项都有结果
			return nil
		})
	}
	_ = g.Wait()

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
