package reddit

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

const defaultBaseURL = "https://www.reddit.com"

// Client Reddit 公开搜索接口客户端
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient 创建 Reddit 客户端。Reddit 会拒绝通用 User-Agent，必须提供
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 20 * time.Second},
	}
}

var _ search.Searcher = (*Client)(nil)

type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	CreatedUTC  float64 `json:"created_utc"`
}

// Search 搜索最近一周的讨论帖
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search.json"

	limit := req.MaxResults
	if limit <= 0 {
		limit = 10
	}
	q := u.Query()
	q.Set("q", req.Query)
	q.Set("sort", "relevance")
	q.Set("t", "week")
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("reddit api error (status %d): %s", res.StatusCode, string(body))
	}

	var l listing
	if err := json.NewDecoder(res.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	results := make([]search.Result, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		p := child.Data
		r := search.Result{
			Title:      p.Title,
			URL:        c.baseURL + p.Permalink,
			Content:    p.Selftext,
			Score:      float64(p.Score),
			Source:     "r/" + p.Subreddit,
			Engagement: p.Score + p.NumComments,
		}
		if p.CreatedUTC > 0 {
			r.PublishedDate = time.Unix(int64(p.CreatedUTC), 0).UTC().Format(time.DateOnly)
		}
		results = append(results, r)
	}
	return &search.Response{Results: results}, nil
}
