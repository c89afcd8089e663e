package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
)

// SchemaError 模型输出结构不合法，可重试
type SchemaError = model.SchemaError

// TransportError 模型调用本身失败（网络、鉴权、熔断、限流重试耗尽），不做结构重试
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RetryExhaustedError 结构校验重试次数耗尽，Last 为最后一次的 SchemaError
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("no valid output after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// IsTransport 判断是否为调用层错误
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRateLimited 判断是否为 429 限流
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "too many requests")
}
