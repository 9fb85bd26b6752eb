package assistant

import (
	stderrors "errors"
	"strings"

	"task-ai-api/internal/domain/service"
	apperrors "task-ai-api/pkg/errors"
)

// Operation 助手操作
type Operation string

const (
	OperationGenerateTask   Operation = "generate_task"
	OperationImproveContent Operation = "improve_content"
)

// 与具体操作无关的错误
var (
	ErrProviderMisconfigured = apperrors.New(apperrors.CodeLLMMisconfigured, "language model API key is not configured")
	ErrInvalidCredentials    = apperrors.New(apperrors.CodeLLMInvalidCredentials, "language model API key is invalid")
	ErrQuotaExceeded         = apperrors.New(apperrors.CodeLLMQuotaExceeded, "language model usage quota exhausted")
	ErrEmptyUpstreamResponse = apperrors.New(apperrors.CodeEmptyLLMResponse, "provider returned no content")
)

type operationMessages struct {
	invalidInput string
	inputTooLong string
	failed       string
}

var messages = map[Operation]operationMessages{
	OperationGenerateTask: {
		invalidInput: "please provide a valid task description",
		inputTooLong: "task description is too long, keep it within 500 characters",
		failed:       "failed to generate task, please try again later",
	},
	OperationImproveContent: {
		invalidInput: "please provide valid task content",
		inputTooLong: "task content is too long, keep it within 500 characters",
		failed:       "failed to improve content, please try again later",
	},
}

// InvalidInput 输入缺失、类型不对或为空白
func InvalidInput(op Operation) *apperrors.AppError {
	return apperrors.New(apperrors.CodeInvalidParam, messages[op].invalidInput)
}

// InputTooLong 输入超过长度上限
func InputTooLong(op Operation) *apperrors.AppError {
	return apperrors.New(apperrors.CodeInputTooLong, messages[op].inputTooLong)
}

// GenerationFailed 兜底错误，不暴露上游细节
func GenerationFailed(op Operation) *apperrors.AppError {
	return apperrors.New(apperrors.CodeGenerationFailed, messages[op].failed)
}

// classifyProviderError 将提供商错误映射为对外错误
// 优先按类型判断；无类型信息时按消息中的 "API key" / "quota" 子串判断。
func classifyProviderError(op Operation, err error) *apperrors.AppError {
	switch {
	case stderrors.Is(err, service.ErrProviderNotConfigured):
		return ErrProviderMisconfigured.WithError(err)
	case stderrors.Is(err, service.ErrProviderUnauthorized):
		return ErrInvalidCredentials.WithError(err)
	case stderrors.Is(err, service.ErrProviderQuotaExceeded):
		return ErrQuotaExceeded.WithError(err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "API key"):
		return ErrInvalidCredentials.WithError(err)
	case strings.Contains(msg, "quota"):
		return ErrQuotaExceeded.WithError(err)
	default:
		return GenerationFailed(op).WithError(err)
	}
}
