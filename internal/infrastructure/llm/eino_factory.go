// Package llm 提供基于 Eino 的语言模型接入
package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"task-ai-api/internal/config"
	"task-ai-api/internal/domain/service"
)

type cachedModel struct {
	apiKey string
	model  model.BaseChatModel
}

// EinoFactory 管理各提供商的 Eino ChatModel 实例
// API Key 每次获取时重新解析，Key 变化后重建客户端。
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]cachedModel
	mu     sync.RWMutex

	newChatModel func(ctx context.Context, cfg *openai.ChatModelConfig) (model.BaseChatModel, error)
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]cachedModel),
		newChatModel: func(ctx context.Context, cfg *openai.ChatModelConfig) (model.BaseChatModel, error) {
			return openai.NewChatModel(ctx, cfg)
		},
	}
}

// ProviderConfig 返回提供商配置，name 为空时取默认提供商
func (f *EinoFactory) ProviderConfig(name string) (string, config.ProviderConfig, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}
	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return name, config.ProviderConfig{}, fmt.Errorf("provider %s not found in LLM config", name)
	}
	return name, providerCfg, nil
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认提供商
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name, providerCfg, err := f.ProviderConfig(name)
	if err != nil {
		return nil, err
	}
	apiKey := providerCfg.ResolveAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("provider %s: %w", name, service.ErrProviderNotConfigured)
	}

	f.mu.RLock()
	cached, ok := f.models[name]
	f.mu.RUnlock()
	if ok && cached.apiKey == apiKey {
		return cached.model, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if cached, ok = f.models[name]; ok && cached.apiKey == apiKey {
		return cached.model, nil
	}

	chatModel, err := f.newChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: providerCfg.BaseURL,
		Model:   providerCfg.Model,
		Timeout: providerCfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = cachedModel{apiKey: apiKey, model: chatModel}
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}
