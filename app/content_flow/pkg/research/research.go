package research

import (
	"context"
	"fmt"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search"
)

const (
	// maxThemeQueries 额外按内容主题搜索的数量
	maxThemeQueries = 2
	// minSnippetRunes 摘要短于该长度时尝试抓取原文
	minSnippetRunes = 500
	// maxSnippetRunes 单条结果写入上下文的最大长度
	maxSnippetRunes = 1500
)

// Tool 研究工具：给定查询返回可直接放进指令的文本
type Tool interface {
	Name() string
	Search(ctx context.Context, query string) (string, error)
}

// Fetcher 抓取网页正文
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ReadabilityFetcher 用 go-readability 提取正文
type ReadabilityFetcher struct {
	Timeout time.Duration
}

// Fetch 实现 Fetcher，ctx 取消时立即中断抓取
func (f ReadabilityFetcher) Fetch(ctx context.Context, url string) (string, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pageURL, err := nurl.Parse(url)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// SearcherTool 把 search.Searcher 适配为 Tool
type SearcherTool struct {
	name       string
	searcher   search.Searcher
	topic      string
	maxResults int
	fetcher    Fetcher
}

// ToolOption SearcherTool 选项
type ToolOption func(*SearcherTool)

// WithTopic 设置搜索类别（news / general）
func WithTopic(topic string) ToolOption {
	return func(t *SearcherTool) { t.topic = topic }
}

// WithMaxResults 设置每次查询的结果数
func WithMaxResults(n int) ToolOption {
	return func(t *SearcherTool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// WithFetcher 摘要过短时用 fetcher 补全正文
func WithFetcher(f Fetcher) ToolOption {
	return func(t *SearcherTool) { t.fetcher = f }
}

// NewSearcherTool 创建 SearcherTool
func NewSearcherTool(name string, s search.Searcher, opts ...ToolOption) *SearcherTool {
	t := &SearcherTool{name: name, searcher: s, maxResults: 5}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ Tool = (*SearcherTool)(nil)

// Name 实现 Tool
func (t *SearcherTool) Name() string { return t.name }

// Search 实现 Tool
func (t *SearcherTool) Search(ctx context.Context, query string) (string, error) {
	resp, err := t.searcher.Search(ctx, &search.Request{
		Query:      query,
		Topic:      t.topic,
		MaxResults: t.maxResults,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return fmt.Sprintf("No results for %q.", query), nil
	}

	var sb strings.Builder
	for i, r := range resp.Results {
		content := r.Content
		if t.fetcher != nil && r.URL != "" && runeLen(content) < minSnippetRunes {
			if text, err := t.fetcher.Fetch(ctx, r.URL); err != nil {
				logger.Log.Debugf("抓取原文失败 %s: %v", r.URL, err)
			} else if strings.TrimSpace(text) != "" {
				content = text
			}
		}
		writeResult(&sb, i+1, r, content)
	}
	return sb.String(), nil
}

func writeResult(sb *strings.Builder, idx int, r search.Result, content string) {
	fmt.Fprintf(sb, "%d. %s", idx, r.Title)
	var meta []string
	if r.Source != "" {
		meta = append(meta, r.Source)
	}
	if r.PublishedDate != "" {
		meta = append(meta, r.PublishedDate)
	}
	if r.Engagement > 0 {
		meta = append(meta, fmt.Sprintf("%d interactions", r.Engagement))
	}
	if len(meta) > 0 {
		fmt.Fprintf(sb, " (%s)", strings.Join(meta, ", "))
	}
	sb.WriteByte('\n')
	if r.URL != "" {
		fmt.Fprintf(sb, "   %s\n", r.URL)
	}
	if c := truncate(strings.TrimSpace(content), maxSnippetRunes); c != "" {
		fmt.Fprintf(sb, "   %s\n", c)
	}
}

// Queries 趋势研究的查询列表：行业+受众，再加最多两个内容主题
func Queries(p *model.CompanyProfile) []string {
	queries := []string{p.ResearchQuery()}
	for _, theme := range p.ContentThemes {
		if len(queries) > maxThemeQueries {
			break
		}
		if theme = strings.TrimSpace(theme); theme != "" {
			queries = append(queries, theme)
		}
	}
	return queries
}

// Gather 依次用每个工具执行每个查询，拼成研究上下文。
// 工具失败不会返回错误，而是以 "<Tool> search failed: <err>" 写入上下文。
func Gather(ctx context.Context, tools []Tool, queries []string) string {
	var sb strings.Builder
	for _, tool := range tools {
		for _, q := range queries {
			fmt.Fprintf(&sb, "### %s search: %s\n", tool.Name(), q)
			text, err := safeSearch(ctx, tool, q)
			if err != nil {
				logger.Log.Warnf("%s 搜索失败 [%s]: %v", tool.Name(), q, err)
				text = fmt.Sprintf("%s search failed: %v", tool.Name(), err)
			}
			sb.WriteString(strings.TrimRight(text, "\n"))
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// safeSearch 把工具内的 panic 转为错误
func safeSearch(ctx context.Context, tool Tool, query string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return tool.Search(ctx, query)
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
