package search

import (
	"context"
	"net/url"
	"strings"
)

// Searcher 定义通用的搜索接口，网页、新闻、社区搜索都实现它
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query             string
	Topic             string // "news" or "general"
	MaxResults        int
	IncludeRawContent bool
	StartDate         string // Format: YYYY-MM-DD
	EndDate           string // Format: YYYY-MM-DD
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
	// Source 来源名称，例如新闻媒体或 subreddit
	Source string
	// Engagement 互动量（点赞、评论等），没有时为 0
	Engagement int
}

// Dedupe 按 URL 去重并保持原顺序，max > 0 时截断
func Dedupe(results []Result, max int) []Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if max > 0 && len(out) >= max {
			break
		}
		key := normalizeURL(r.URL)
		if key != "" {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

// normalizeURL 忽略协议、www 前缀、结尾斜杠和锚点
func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	return host + strings.TrimRight(u.EscapedPath(), "/") + "?" + u.RawQuery
}

// Host 结果所在站点，解析失败时为空
func (r Result) Host() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
