package conf

import "github.com/iWorld-y/content_flow/app/content_flow/pkg/config"

// ToConfig 将 Flow 转换为 pkg/config.Config，并应用环境变量与默认值
func (c *Flow) ToConfig() *config.Config {
	cfg := &config.Config{}
	if c == nil {
		c = &Flow{}
	}
	if c.Db != nil {
		cfg.DB = config.DBConfig{
			DSN:      c.Db.Dsn,
			Host:     c.Db.Host,
			Port:     int(c.Db.Port),
			User:     c.Db.User,
			Password: c.Db.Password,
			Name:     c.Db.Name,
		}
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL:     c.Llm.BaseUrl,
			APIKey:      c.Llm.ApiKey,
			Model:       c.Llm.Model,
			Temperature: c.Llm.Temperature,
			Timeout:     int(c.Llm.Timeout),
		}
	}
	if c.Search != nil {
		cfg.Search.Provider = c.Search.Provider
		cfg.Search.Enrich = c.Search.Enrich
		if c.Search.Tavily != nil {
			cfg.Search.Tavily.APIKey = c.Search.Tavily.ApiKey
		}
		if c.Search.Searxng != nil {
			cfg.Search.SearXNG = config.SearXNGConfig{
				BaseURL: c.Search.Searxng.BaseUrl,
				Timeout: int(c.Search.Searxng.Timeout),
			}
		}
	}
	if c.News != nil {
		cfg.News = config.NewsConfig{APIKey: c.News.ApiKey, BaseURL: c.News.BaseUrl}
	}
	if c.Reddit != nil {
		cfg.Reddit = config.RedditConfig{
			Enabled:   c.Reddit.Enabled,
			UserAgent: c.Reddit.UserAgent,
			BaseURL:   c.Reddit.BaseUrl,
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}
	if c.Workflow != nil {
		cfg.Workflow = config.WorkflowConfig{
			MaxAttempts:      int(c.Workflow.MaxAttempts),
			Policy:           c.Workflow.Policy,
			RunTimeout:       int(c.Workflow.RunTimeout),
			RateLimitRetries: int(c.Workflow.RateLimitRetries),
		}
	}

	cfg.ApplyEnv()
	cfg.Defaults()
	return cfg
}
