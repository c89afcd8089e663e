package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	News        NewsConfig        `yaml:"news"`
	Reddit      RedditConfig      `yaml:"reddit"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
	Workflow    WorkflowConfig    `yaml:"workflow"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	Model       string   `yaml:"model"`
	Temperature *float32 `yaml:"temperature"`
	Timeout     int      `yaml:"timeout"` // 秒
}

// DBConfig 数据库相关配置，DSN 非空时优先于分项配置
type DBConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ConnString 返回 lib/pq 可用的连接串
func (c DBConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// Enabled 是否配置了数据库
func (c DBConfig) Enabled() bool {
	return c.DSN != "" || c.Host != ""
}

// SearchConfig 网页搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
	// Enrich 为 true 时对过短的摘要抓取原文
	Enrich bool `yaml:"enrich"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// NewsConfig NewsAPI 配置，APIKey 为空时不启用新闻搜索
type NewsConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// RedditConfig Reddit 搜索配置
type RedditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	UserAgent string `yaml:"user_agent"`
	BaseURL   string `yaml:"base_url"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// WorkflowConfig 工作流执行配置
type WorkflowConfig struct {
	// MaxAttempts 结构化输出校验失败时的最大尝试次数
	MaxAttempts int `yaml:"max_attempts"`
	// Policy 取值 continue 或 fail_fast
	Policy string `yaml:"policy"`
	// RunTimeout 单次运行的总时长上限（秒），0 表示不限制
	RunTimeout int `yaml:"run_timeout"`
	// RateLimitRetries 遇到 429 时的重试次数
	RateLimitRetries int `yaml:"rate_limit_retries"`
}

// RunTimeoutDuration 返回运行时长上限
func (w WorkflowConfig) RunTimeoutDuration() time.Duration {
	return time.Duration(w.RunTimeout) * time.Second
}

// LoadConfig 从指定路径加载配置，并用环境变量覆盖敏感字段
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	cfg.ApplyEnv()
	cfg.Defaults()

	return &cfg, nil
}

// ApplyEnv 用环境变量覆盖密钥类配置
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.Search.Tavily.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DB.DSN = v
	}
}

// Defaults 填充零值字段
func (c *Config) Defaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Workflow.MaxAttempts <= 0 {
		c.Workflow.MaxAttempts = 3
	}
	if c.Workflow.Policy == "" {
		c.Workflow.Policy = "continue"
	}
	if c.Workflow.RateLimitRetries < 0 {
		c.Workflow.RateLimitRetries = 0
	} else if c.Workflow.RateLimitRetries == 0 {
		c.Workflow.RateLimitRetries = 3
	}
	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = "content_flow/1.0"
	}
}
