package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
)

// Prompt 一次生成调用的指令
type Prompt struct {
	System string
	User   string
}

// Generator 生成式调用能力，返回模型原始文本
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// ChatOptions ChatGenerator 的可选项
type ChatOptions struct {
	// Limiter 所有运行共享的限流器，为空时不限流
	Limiter *rate.Limiter
	// RateLimitRetries 遇到 429 时的最大重试次数
	RateLimitRetries int
	BaseDelay        time.Duration
	MaxDelay         time.Duration
	// BreakerFailures 在 BreakerWindow 次调用中失败达到该数量时熔断
	BreakerFailures uint
	BreakerWindow   uint
	BreakerDelay    time.Duration
}

func (o ChatOptions) normalize() ChatOptions {
	if o.RateLimitRetries < 0 {
		o.RateLimitRetries = 0
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 2 * time.Second
	}
	if o.MaxDelay < o.BaseDelay {
		o.MaxDelay = o.BaseDelay * 8
	}
	if o.BreakerWindow == 0 {
		o.BreakerWindow = 10
	}
	if o.BreakerFailures == 0 || o.BreakerFailures > o.BreakerWindow {
		o.BreakerFailures = o.BreakerWindow / 2
		if o.BreakerFailures == 0 {
			o.BreakerFailures = 1
		}
	}
	if o.BreakerDelay <= 0 {
		o.BreakerDelay = 30 * time.Second
	}
	return o
}

// ChatGenerator 基于 eino ChatModel 的 Generator，串联限流、429 退避重试与熔断
type ChatGenerator struct {
	cm       model.BaseChatModel
	limiter  *rate.Limiter
	executor failsafe.Executor[*schema.Message]
	breaker  circuitbreaker.CircuitBreaker[*schema.Message]
}

// NewChatGenerator 创建 ChatGenerator
func NewChatGenerator(cm model.BaseChatModel, opts ChatOptions) *ChatGenerator {
	opts = opts.normalize()

	retry := retrypolicy.NewBuilder[*schema.Message]().
		HandleIf(func(_ *schema.Message, err error) bool {
			return IsRateLimited(err)
		}).
		WithBackoff(opts.BaseDelay, opts.MaxDelay).
		WithMaxRetries(opts.RateLimitRetries).
		Build()

	breaker := circuitbreaker.NewBuilder[*schema.Message]().
		WithFailureThresholdRatio(opts.BreakerFailures, opts.BreakerWindow).
		WithDelay(opts.BreakerDelay).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			logger.Log.Warnf("模型熔断器状态变化: %v -> %v", e.OldState, e.NewState)
		}).
		Build()

	return &ChatGenerator{
		cm:       cm,
		limiter:  opts.Limiter,
		executor: failsafe.With[*schema.Message](retry, breaker),
		breaker:  breaker,
	}
}

// Generate 实现 Generator 接口，所有调用层错误包装为 TransportError
func (g *ChatGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: p.System},
		{Role: schema.User, Content: p.User},
	}

	resp, err := g.executor.WithContext(ctx).Get(func() (*schema.Message, error) {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		msg, err := g.cm.Generate(ctx, messages)
		if IsRateLimited(err) {
			logger.Log.Warnf("模型限流 (429): %v", err)
		}
		return msg, err
	})
	if err != nil {
		return "", &TransportError{Err: err}
	}
	if resp == nil {
		return "", &TransportError{Err: errors.New("empty model response")}
	}
	return resp.Content, nil
}

// BreakerOpen 熔断器是否处于打开状态
func (g *ChatGenerator) BreakerOpen() bool {
	return g.breaker.IsOpen()
}
