package assistant

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxInputLength 输入字符数上限，按未去空白的原文计算
	MaxInputLength = 500
	// SummaryThreshold 去空白后超过该字符数时改为生成摘要
	SummaryThreshold = 100
)

// validateInput 按顺序校验：缺失或空白 → InvalidInput；原文超长 → InputTooLong
// 通过时返回去除首尾空白后的文本。
func validateInput(op Operation, raw *string) (string, error) {
	if raw == nil {
		return "", InvalidInput(op)
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return "", InvalidInput(op)
	}
	if utf8.RuneCountInString(*raw) > MaxInputLength {
		return "", InputTooLong(op)
	}
	return trimmed, nil
}
