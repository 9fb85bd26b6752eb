package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"task-ai-api/internal/application/assistant"
	"task-ai-api/internal/config"
	"task-ai-api/internal/domain/service"
	"task-ai-api/internal/interfaces/http/handler"
	"task-ai-api/internal/interfaces/http/middleware"
)

type nopCompleter struct{}

func (nopCompleter) Complete(context.Context, string, string, service.CompletionOptions) (string, error) {
	return "Title\nBody", nil
}

func newTestRouter() *Router {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		App: config.AppConfig{Name: "task-ai-api", Env: "test"},
		Observability: config.ObservabilityConfig{
			Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		},
	}
	authCfg := middleware.AuthConfig{Secret: "s", Issuer: "i", AccessTTL: time.Minute, RefreshTTL: time.Hour}

	handlers := &RouterHandlers{
		Health:    handler.NewHealthHandler(nil, nil, "test"),
		Auth:      handler.NewAuthHandler(authCfg, nil, nil),
		User:      handler.NewUserHandler(nil),
		Task:      handler.NewTaskHandler(nil),
		Assistant: handler.NewAssistantHandler(assistant.NewService(nopCompleter{}, nil)),
	}
	return NewWithDeps(cfg, authCfg, handlers)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/v1/tasks"},
		{http.MethodPost, "/v1/tasks"},
		{http.MethodGet, "/v1/tasks/tags"},
		{http.MethodGet, "/v1/tasks/0b9d2b8e-5a4e-4c1e-9a53-2f0c4c1f1a11"},
		{http.MethodPut, "/v1/tasks/0b9d2b8e-5a4e-4c1e-9a53-2f0c4c1f1a11"},
		{http.MethodDelete, "/v1/tasks/0b9d2b8e-5a4e-4c1e-9a53-2f0c4c1f1a11"},
		{http.MethodGet, "/v1/users/me"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		r.Engine().ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status = %d, want 401", route.method, route.path, w.Code)
		}
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/generate-task", strings.NewReader(`{"prompt":"write a title"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("generate-task status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}

	for _, path := range []string{"/health", "/live", "/metrics"} {
		w := httptest.NewRecorder()
		r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
}
