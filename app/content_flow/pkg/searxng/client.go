package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search"
)

// 部分实例会拦截没有浏览器 User-Agent 的请求
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client SearXNG 客户端。多个引擎的结果会按 URL 合并
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient timeout 单位为秒，0 表示 30 秒
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t <= 0 {
		t = 30 * time.Second
	}
	return &Client{endpoint: baseURL, http: &http.Client{Timeout: t}}
}

var _ search.Searcher = (*Client)(nil)

type response struct {
	Query   string   `json:"query"`
	Results []result `json:"results"`
}

type result struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"`
	PublishedDate string   `json:"publishedDate"`
	Score         float64  `json:"score"`
	Engine        string   `json:"engine"`
	Engines       []string `json:"engines"`
}

// source 优先使用引擎名，没有时退回站点域名
func (r result) source(hit search.Result) string {
	switch {
	case r.Engine != "":
		return r.Engine
	case len(r.Engines) > 0:
		return r.Engines[0]
	}
	return hit.Host()
}

// Search 实现 search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	target, err := c.searchURL(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, string(body))
	}

	var payload response
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	hits := make([]search.Result, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.Title == "" && r.Content == "" {
			continue
		}
		hit := search.Result{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			Score:         r.Score,
			PublishedDate: r.PublishedDate,
		}
		hit.Source = r.source(hit)
		hits = append(hits, hit)
	}
	return &search.Response{Results: search.Dedupe(hits, req.MaxResults)}, nil
}

// searchURL 新闻类查询限定在最近一周，其余按通用类别搜索
func (c *Client) searchURL(req *search.Request) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("format", "json")
	switch req.Topic {
	case "news":
		q.Set("categories", "news")
		q.Set("time_range", "week")
	case "social":
		q.Set("categories", "social media")
		q.Set("time_range", "week")
	default:
		q.Set("categories", "general")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
