// Package service 定义领域层对外部能力的端口
package service

import (
	"context"
	"errors"
)

// 提供商错误哨兵，适配器用 %w 包装后返回
var (
	// ErrProviderUnauthorized 凭证无效或被拒绝
	ErrProviderUnauthorized = errors.New("provider rejected the API key")
	// ErrProviderQuotaExceeded 额度耗尽或被限流
	ErrProviderQuotaExceeded = errors.New("provider quota exceeded")
	// ErrProviderNotConfigured 进程配置中缺少凭证
	ErrProviderNotConfigured = errors.New("provider API key is not configured")
)

// CompletionOptions 单次补全的生成参数
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
}

// Completer 文本生成能力
// 一次调用对应一次上游请求，返回首个候选的文本，不做重试。
type Completer interface {
	Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error)
}

// CredentialChecker 可选能力：在发起请求前检查凭证是否已配置
type CredentialChecker interface {
	HasCredentials() bool
}
