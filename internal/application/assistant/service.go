// Package assistant 实现基于语言模型的任务草稿生成与内容改写
package assistant

import (
	"context"
	"strings"
	"time"

	"task-ai-api/internal/application/assistant/prompt"
	"task-ai-api/internal/domain/service"
	apperrors "task-ai-api/pkg/errors"
	"task-ai-api/pkg/logger"
	"task-ai-api/pkg/metrics"
)

// 生成参数
const (
	Temperature           float32 = 0.7
	GenerateTaskMaxTokens         = 500
	ImproveMaxTokens              = 300
)

// ImprovementType 改写方式，由输入长度决定
type ImprovementType string

const (
	ImprovementTypeSummary     ImprovementType = "summary"
	ImprovementTypeImprovement ImprovementType = "improvement"
)

// GenerationResult 生成任务的结果
type GenerationResult struct {
	TaskDraft
	Outcome Outcome
}

// ImprovementResult 内容改写的结果
type ImprovementResult struct {
	ImprovedContent string
	Type            ImprovementType
}

// Service 助手服务
// 每个请求只调用一次提供商，不重试、不缓存、不落库。
type Service struct {
	completer   service.Completer
	credentials service.CredentialChecker
	prompts     *prompt.Registry
}

// NewService 创建助手服务；credentials 为 nil 时跳过凭证预检
func NewService(completer service.Completer, credentials service.CredentialChecker) *Service {
	return &Service{
		completer:   completer,
		credentials: credentials,
		prompts:     prompt.NewRegistry(),
	}
}

// GenerateTask 根据自由文本描述生成任务标题与内容
func (s *Service) GenerateTask(ctx context.Context, description *string) (res *GenerationResult, err error) {
	const op = OperationGenerateTask
	defer func() { recordOutcome(op, err) }()

	text, err := s.prepare(op, description)
	if err != nil {
		return nil, err
	}

	system, err := s.prompts.System(prompt.PromptGenerateTaskV1)
	if err != nil {
		return nil, GenerationFailed(op).WithError(err)
	}

	reply, err := s.complete(ctx, op, system, text, GenerateTaskMaxTokens)
	if err != nil {
		return nil, err
	}

	draft, outcome := CoerceTaskDraft(reply)
	metrics.AssistantCoercionTotal.WithLabelValues(outcome.String()).Inc()
	if outcome == OutcomeRecovered {
		logger.Warn(ctx, "model reply is not the expected JSON, recovered by line heuristic",
			"reply_length", len(reply),
		)
	}
	return &GenerationResult{TaskDraft: draft, Outcome: outcome}, nil
}

// ImproveContent 改写任务内容：超过 SummaryThreshold 个字符时生成摘要，否则润色
func (s *Service) ImproveContent(ctx context.Context, content *string) (res *ImprovementResult, err error) {
	const op = OperationImproveContent
	defer func() { recordOutcome(op, err) }()

	text, err := s.prepare(op, content)
	if err != nil {
		return nil, err
	}

	kind, promptID := SelectImprovement(text)
	system, err := s.prompts.System(promptID)
	if err != nil {
		return nil, GenerationFailed(op).WithError(err)
	}

	reply, err := s.complete(ctx, op, system, text, ImproveMaxTokens)
	if err != nil {
		return nil, err
	}
	return &ImprovementResult{ImprovedContent: strings.TrimSpace(reply), Type: kind}, nil
}

// SelectImprovement 按去空白后的字符数选择改写方式与对应指令
func SelectImprovement(trimmed string) (ImprovementType, prompt.PromptID) {
	if len([]rune(trimmed)) > SummaryThreshold {
		return ImprovementTypeSummary, prompt.PromptSummarizeContentV1
	}
	return ImprovementTypeImprovement, prompt.PromptImproveContentV1
}

// prepare 校验输入并检查凭证，全部在发起网络请求之前完成
func (s *Service) prepare(op Operation, raw *string) (string, error) {
	text, err := validateInput(op, raw)
	if err != nil {
		return "", err
	}
	if s.credentials != nil && !s.credentials.HasCredentials() {
		return "", ErrProviderMisconfigured
	}
	return text, nil
}

func (s *Service) complete(ctx context.Context, op Operation, system, user string, maxTokens int) (string, error) {
	ctx = service.WithOperation(ctx, string(op))

	start := time.Now()
	reply, err := s.completer.Complete(ctx, system, user, service.CompletionOptions{
		Temperature: Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		appErr := classifyProviderError(op, err)
		logger.Error(ctx, "language model call failed", err,
			"operation", string(op),
			"code", string(appErr.Code),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", appErr
	}
	if reply == "" {
		logger.Warn(ctx, "language model returned no content", "operation", string(op))
		return "", ErrEmptyUpstreamResponse
	}
	return reply, nil
}

func recordOutcome(op Operation, err error) {
	outcome := "success"
	if err != nil {
		outcome = string(apperrors.AsAppError(err).Code)
	}
	metrics.AssistantRequestsTotal.WithLabelValues(string(op), outcome).Inc()
}
