package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyOperation llmCtxKey = "llm_operation"
	llmCtxKeyProvider  llmCtxKey = "llm_provider"
)

const unknownLabel = "unknown"

// WithOperation 标记本次 LLM 调用所属的业务操作（generate_task / improve_content）
func WithOperation(ctx context.Context, operation string) context.Context {
	return withLabel(ctx, llmCtxKeyOperation, operation)
}

// WithProvider 标记本次 LLM 调用使用的提供商
func WithProvider(ctx context.Context, provider string) context.Context {
	return withLabel(ctx, llmCtxKeyProvider, provider)
}

// WithOperationProvider 同时设置操作与提供商
func WithOperationProvider(ctx context.Context, operation, provider string) context.Context {
	return WithProvider(WithOperation(ctx, operation), provider)
}

// OperationFromContext 读取操作标签，缺省为 "unknown"
func OperationFromContext(ctx context.Context) string {
	return labelFromContext(ctx, llmCtxKeyOperation)
}

// ProviderFromContext 读取提供商标签，缺省为 "unknown"
func ProviderFromContext(ctx context.Context) string {
	return labelFromContext(ctx, llmCtxKeyProvider)
}

func withLabel(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func labelFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknownLabel
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return unknownLabel
	}
	return s
}
