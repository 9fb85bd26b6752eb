// Package prompt 管理助手使用的系统指令模板（随二进制内嵌）
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptGenerateTaskV1     PromptID = "generate_task_v1"
	PromptSummarizeContentV1 PromptID = "summarize_content_v1"
	PromptImproveContentV1   PromptID = "improve_content_v1"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]string
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]string),
	}
}

// System 返回指定模板的系统指令文本
func (r *Registry) System(id PromptID) (string, error) {
	if r == nil {
		return "", fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if text, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return text, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if text, ok := r.cache[id]; ok {
		return text, nil
	}

	path, err := resolveSystemFile(id)
	if err != nil {
		return "", err
	}
	text, err := readEmbeddedText(path)
	if err != nil {
		return "", err
	}
	r.cache[id] = text
	return text, nil
}

// MustSystem 用于启动期加载，模板缺失属于构建错误
func (r *Registry) MustSystem(id PromptID) string {
	text, err := r.System(id)
	if err != nil {
		panic(err)
	}
	return text
}

func resolveSystemFile(id PromptID) (string, error) {
	switch id {
	case PromptGenerateTaskV1, PromptSummarizeContentV1, PromptImproveContentV1:
		return "templates/" + string(id) + ".system.txt", nil
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
