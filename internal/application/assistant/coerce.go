package assistant

import (
	"encoding/json"
	"strings"
)

// 兜底解析的默认值
const (
	DefaultDraftTitle   = "new task"
	DefaultDraftContent = "please add task details"
)

// Outcome 模型回复的解析结果
type Outcome int

const (
	// OutcomeParsed 回复是合法 JSON 且 title、content 均非空
	OutcomeParsed Outcome = iota
	// OutcomeRecovered 回复走了按行兜底解析
	OutcomeRecovered
)

func (o Outcome) String() string {
	if o == OutcomeParsed {
		return "parsed"
	}
	return "recovered"
}

// TaskDraft 由模型回复得到的任务草稿
type TaskDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type draftPayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// CoerceTaskDraft 将模型回复转为任务草稿，任何输入都不会失败
// 整段回复严格解析为 JSON 才算 parsed；否则按行兜底：首行去掉 #、-、* 与空白前缀作为标题，其余行作为内容。
func CoerceTaskDraft(raw string) (TaskDraft, Outcome) {
	if draft, ok := parseDraft(raw); ok {
		return draft, OutcomeParsed
	}
	return recoverDraft(raw), OutcomeRecovered
}

func parseDraft(raw string) (TaskDraft, bool) {
	var p draftPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return TaskDraft{}, false
	}
	if p.Title == nil || p.Content == nil {
		return TaskDraft{}, false
	}
	title := strings.TrimSpace(*p.Title)
	content := strings.TrimSpace(*p.Content)
	if title == "" || content == "" {
		return TaskDraft{}, false
	}
	return TaskDraft{Title: title, Content: content}, true
}

func recoverDraft(raw string) TaskDraft {
	lines := make([]string, 0, 8)
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	draft := TaskDraft{Title: DefaultDraftTitle, Content: DefaultDraftContent}
	if len(lines) == 0 {
		return draft
	}
	if title := strings.TrimSpace(strings.TrimLeft(lines[0], "#-* \t\r\n\v\f")); title != "" {
		draft.Title = title
	}
	if content := strings.TrimSpace(strings.Join(lines[1:], "\n")); content != "" {
		draft.Content = content
	}
	return draft
}
