package factory

import (
	"fmt"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/config"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/newsapi"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/reddit"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/searxng"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/tavily"
)

// NewSearcher 根据配置创建网页搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		// 未指定时，有 tavily key 则使用 tavily
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("search provider not configured")
		}
		provider = "tavily"
	}

	switch provider {
	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Search.Tavily.APIKey), nil

	case "searxng":
		if cfg.Search.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.Search.SearXNG.BaseURL, cfg.Search.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}

// NewNewsSearcher 配置了 NewsAPI key 时返回新闻搜索，否则返回 nil
func NewNewsSearcher(cfg *config.Config) search.Searcher {
	if cfg.News.APIKey == "" {
		return nil
	}
	return newsapi.NewClient(cfg.News.APIKey, cfg.News.BaseURL)
}

// NewSocialSearcher 启用 Reddit 时返回社区搜索，否则返回 nil
func NewSocialSearcher(cfg *config.Config) search.Searcher {
	if !cfg.Reddit.Enabled {
		return nil
	}
	return reddit.NewClient(cfg.Reddit.BaseURL, cfg.Reddit.UserAgent)
}
