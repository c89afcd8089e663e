package stage

import (
	"strings"
	"time"
)

// 阶段名称，同时用作错误前缀
const (
	NameTrendResearch   = "Trend Research"
	NameContentStrategy = "Content Strategy"
	NameBriefGeneration = "Brief Generation"
)

// 上游产出缺失时写入指令的占位文本
const (
	placeholderTrends   = "No specific trends found"
	placeholderStrategy = "General content strategy"
	placeholderTopics   = "General content topics"
	placeholderKeywords = "General industry keywords"
)

// Option 阶段选项
type Option func(*base)

// WithClock 替换时钟，用于填充日期字段
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

type base struct {
	now func() time.Time
}

func newBase(opts []Option) base {
	b := base{now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b base) today() string {
	return b.now().Format(time.DateOnly)
}

// joinOr 逗号拼接，为空时返回 fallback
func joinOr(items []string, fallback string) string {
	var kept []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return fallback
	}
	return strings.Join(kept, ", ")
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
