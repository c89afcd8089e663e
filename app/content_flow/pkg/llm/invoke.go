package llm

import (
	"context"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
)

// DefaultMaxAttempts 结构校验失败时的默认尝试次数
const DefaultMaxAttempts = 3

// SchemaRetry 带结构校验重试的生成调用
type SchemaRetry struct {
	gen         Generator
	maxAttempts int
}

// WithSchemaRetry 包装 Generator，输出不合法时用同一指令重新调用，最多 maxAttempts 次
func WithSchemaRetry(gen Generator, maxAttempts int) *SchemaRetry {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &SchemaRetry{gen: gen, maxAttempts: maxAttempts}
}

// MaxAttempts 返回最大尝试次数
func (r *SchemaRetry) MaxAttempts() int { return r.maxAttempts }

// Invoke 调用模型并按 T 的结构严格解析。
// SchemaError 触发重试；其他错误（包括 TransportError）直接返回；
// 次数耗尽返回 RetryExhaustedError。
func Invoke[T any](ctx context.Context, r *SchemaRetry, p Prompt) (*T, error) {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &TransportError{Err: err}
		}

		raw, err := r.gen.Generate(ctx, p)
		if err != nil {
			return nil, err
		}

		out, err := model.Decode[T](raw)
		if err == nil {
			return out, nil
		}
		if !model.IsSchemaError(err) {
			return nil, err
		}

		lastErr = err
		logger.Log.Warnf("模型输出校验失败 (第 %d/%d 次): %v", attempt, r.maxAttempts, err)
	}
	return nil, &RetryExhaustedError{Attempts: r.maxAttempts, Last: lastErr}
}
