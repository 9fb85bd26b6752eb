package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/meguminnnnnnnnn/go-openai"

	"task-ai-api/internal/domain/service"
)

// classifyError 将 OpenAI 客户端错误包装为领域哨兵错误，原始错误保留在链上
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, service.ErrProviderUnauthorized) ||
		errors.Is(err, service.ErrProviderQuotaExceeded) ||
		errors.Is(err, service.ErrProviderNotConfigured) {
		return err
	}

	if sentinel := sentinelFor(err); sentinel != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

func sentinelFor(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		if isQuotaCode(apiErr.Type) || isQuotaCode(fmt.Sprint(apiErr.Code)) {
			return service.ErrProviderQuotaExceeded
		}
		return sentinelForStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return sentinelForStatus(reqErr.HTTPStatusCode)
	}
	return nil
}

func sentinelForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return service.ErrProviderUnauthorized
	case http.StatusTooManyRequests:
		return service.ErrProviderQuotaExceeded
	default:
		return nil
	}
}

func isQuotaCode(code string) bool {
	code = strings.ToLower(code)
	return strings.Contains(code, "insufficient_quota") || strings.Contains(code, "rate_limit")
}
