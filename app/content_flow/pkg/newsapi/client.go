package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search"
)

const defaultBaseURL = "https://newsapi.org"

// lookback 只搜索最近 7 天的新闻
const lookback = 7 * 24 * time.Hour

// Client NewsAPI 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewClient 创建 NewsAPI 客户端，baseURL 为空时使用官方地址
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

var _ search.Searcher = (*Client)(nil)

type articlesResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Search 搜索最近 7 天的英文新闻，按相关度排序
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/v2/everything"

	pageSize := req.MaxResults
	if pageSize <= 0 {
		pageSize = 5
	}
	to := c.now().UTC()
	from := to.Add(-lookback)

	q := u.Query()
	q.Set("q", req.Query)
	q.Set("language", "en")
	q.Set("from", from.Format(time.DateOnly))
	q.Set("to", to.Format(time.DateOnly))
	q.Set("sortBy", "relevancy")
	q.Set("pageSize", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	var ar articlesResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("newsapi error (status %d): %s", res.StatusCode, string(body))
		}
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	if res.StatusCode != http.StatusOK || ar.Status == "error" {
		return nil, fmt.Errorf("newsapi error (status %d): %s %s", res.StatusCode, ar.Code, ar.Message)
	}

	results := make([]search.Result, 0, len(ar.Articles))
	for _, a := range ar.Articles {
		results = append(results, search.Result{
			Title:         a.Title,
			URL:           a.URL,
			Content:       a.Description,
			RawContent:    a.Content,
			PublishedDate: a.PublishedAt,
			Source:        a.Source.Name,
		})
	}
	return &search.Response{Results: results}, nil
}
