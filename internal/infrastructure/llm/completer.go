package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"task-ai-api/internal/domain/service"
)

// ChatModelFactory ChatCompleter 对模型工厂的最小依赖
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// CredentialSource 判断提供商凭证是否已配置
type CredentialSource interface {
	HasCredentials(name string) bool
}

type completionRequest struct {
	System string
	User   string
	Opts   service.CompletionOptions
}

// ChatCompleter 用 Eino Chain 实现 service.Completer
type ChatCompleter struct {
	factory     ChatModelFactory
	credentials CredentialSource
	provider    string

	chainOnce sync.Once
	chain     compose.Runnable[*completionRequest, *schema.Message]
	chainErr  error
}

// NewChatCompleter 创建补全器，provider 为空时使用默认提供商
func NewChatCompleter(factory ChatModelFactory, credentials CredentialSource, provider string) *ChatCompleter {
	return &ChatCompleter{
		factory:     factory,
		credentials: credentials,
		provider:    strings.TrimSpace(provider),
	}
}

// HasCredentials 实现 service.CredentialChecker
func (c *ChatCompleter) HasCredentials() bool {
	if c.credentials == nil {
		return true
	}
	return c.credentials.HasCredentials(c.provider)
}

// Complete 发起一次补全并返回首个候选的文本
func (c *ChatCompleter) Complete(ctx context.Context, system, user string, opts service.CompletionOptions) (string, error) {
	chain, err := c.getChain()
	if err != nil {
		return "", err
	}

	ctx = service.WithProvider(ctx, c.providerLabel())
	out, err := chain.Invoke(ctx, &completionRequest{System: system, User: user, Opts: opts})
	if err != nil {
		return "", classifyError(err)
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

func (c *ChatCompleter) providerLabel() string {
	if c.provider == "" {
		return "default"
	}
	return c.provider
}

func (c *ChatCompleter) getChain() (compose.Runnable[*completionRequest, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *ChatCompleter) buildChain(ctx context.Context) (compose.Runnable[*completionRequest, *schema.Message], error) {
	chain := compose.NewChain[*completionRequest, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, req *completionRequest) (*schema.Message, error) {
			if req == nil {
				return nil, fmt.Errorf("completion request is nil")
			}
			chatModel, err := c.factory.Get(ctx, c.provider)
			if err != nil {
				return nil, err
			}

			msgs := []*schema.Message{
				schema.SystemMessage(req.System),
				schema.UserMessage(req.User),
			}
			out, err := chatModel.Generate(ctx, msgs, buildModelOptions(req.Opts)...)
			if err != nil {
				// 在节点内分类，避免图执行层包装后丢失上游错误类型
				return nil, classifyError(err)
			}
			return out, nil
		}),
		compose.WithNodeName("completion.llm"),
	)

	return chain.Compile(ctx)
}

func buildModelOptions(opts service.CompletionOptions) []model.Option {
	out := make([]model.Option, 0, 2)
	if opts.Temperature > 0 {
		out = append(out, model.WithTemperature(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		out = append(out, model.WithMaxTokens(opts.MaxTokens))
	}
	return out
}

// HasCredentials 实现 CredentialSource，每次调用都重新读取环境变量
func (f *EinoFactory) HasCredentials(name string) bool {
	_, providerCfg, err := f.ProviderConfig(name)
	if err != nil {
		return false
	}
	return providerCfg.ResolveAPIKey() != ""
}
