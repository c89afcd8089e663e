package conf

type Bootstrap struct {
	Server *Server
	Flow   *Flow
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// Flow 内容流水线配置，由 server.NewEngine 转换为 pkg/config.Config
type Flow struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	News        *News        `json:"news"`
	Reddit      *Reddit      `json:"reddit"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
	Workflow    *Workflow    `json:"workflow"`
}

type LLM struct {
	BaseUrl     string   `json:"base_url"`
	ApiKey      string   `json:"api_key"`
	Model       string   `json:"model"`
	Temperature *float32 `json:"temperature"`
	Timeout     int32    `json:"timeout"`
}

type Search struct {
	Provider string   `json:"provider"`
	Tavily   *Tavily  `json:"tavily"`
	Searxng  *SearXNG `json:"searxng"`
	Enrich   bool     `json:"enrich"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type News struct {
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
}

type Reddit struct {
	Enabled   bool   `json:"enabled"`
	UserAgent string `json:"user_agent"`
	BaseUrl   string `json:"base_url"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type DB struct {
	Dsn      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type Workflow struct {
	MaxAttempts      int32  `json:"max_attempts"`
	Policy           string `json:"policy"`
	RunTimeout       int32  `json:"run_timeout"`
	RateLimitRetries int32  `json:"rate_limit_retries"`
}
