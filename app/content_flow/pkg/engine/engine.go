package engine

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/config"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/llm"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/research"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search/factory"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/stage"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/storage"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/workflow"
)

// Store 运行记录持久化，storage.Storage 实现了该接口
type Store interface {
	CreateRun(ctx context.Context, runID, workflowID, companyID string, startedAt time.Time) error
	CompleteRun(ctx context.Context, st workflow.State) error
}

// Engine 核心处理引擎。构造后只读，可被多个运行并发使用
type Engine struct {
	stages   []workflow.Stage
	orchOpts []workflow.Option
	store    Store
	now      func() time.Time
}

// Options 直接组装引擎所需的依赖，主要用于测试
type Options struct {
	Generator   llm.Generator
	Tools       []research.Tool
	Store       Store
	MaxAttempts int
	Policy      workflow.Policy
	RunTimeout  time.Duration
	Now         func() time.Time
}

// New 用现成的依赖创建引擎
func New(opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	retry := llm.WithSchemaRetry(opts.Generator, opts.MaxAttempts)

	e := &Engine{
		stages: []workflow.Stage{
			stage.NewTrendResearch(retry, opts.Tools, stage.WithClock(now)),
			stage.NewContentStrategy(retry, stage.WithClock(now)),
			stage.NewBriefGeneration(retry, stage.WithClock(now)),
		},
		orchOpts: []workflow.Option{
			workflow.WithTimeout(opts.RunTimeout),
			workflow.WithClock(now),
		},
		store: opts.Store,
		now:   now,
	}
	if opts.Policy != "" {
		e.orchOpts = append(e.orchOpts, workflow.WithPolicy(opts.Policy))
	}
	return e
}

// NewEngine 根据配置创建引擎实例，store 可以为空
func NewEngine(cfg *config.Config, store *storage.Storage) (*Engine, error) {
	ctx := context.Background()

	// 初始化 LLM
	mc := &openai.ChatModelConfig{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}
	if cfg.LLM.Timeout > 0 {
		mc.Timeout = time.Duration(cfg.LLM.Timeout) * time.Second
	}
	chatModel, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// 初始化限流器，所有运行共享
	limit := rate.Inf
	if cfg.Concurrency.RPM > 0 {
		limit = rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	}
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)

	gen := llm.NewChatGenerator(chatModel, llm.ChatOptions{
		Limiter:          limiter,
		RateLimitRetries: cfg.Workflow.RateLimitRetries,
	})

	tools, err := newTools(cfg)
	if err != nil {
		return nil, err
	}

	policy, err := workflow.ParsePolicy(cfg.Workflow.Policy)
	if err != nil {
		return nil, err
	}

	opts := Options{
		Generator:   gen,
		Tools:       tools,
		MaxAttempts: cfg.Workflow.MaxAttempts,
		Policy:      policy,
		RunTimeout:  cfg.Workflow.RunTimeoutDuration(),
	}
	if store != nil {
		opts.Store = store
	}
	return New(opts), nil
}

// newTools 网页搜索必选，新闻与社区搜索按配置启用
func newTools(cfg *config.Config) ([]research.Tool, error) {
	var toolOpts []research.ToolOption
	if cfg.Search.Enrich {
		toolOpts = append(toolOpts, research.WithFetcher(research.ReadabilityFetcher{Timeout: 15 * time.Second}))
	}

	web, err := factory.NewSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	tools := []research.Tool{research.NewSearcherTool("Web", web, toolOpts...)}

	optional := []struct {
		name     string
		searcher search.Searcher
		topic    string
	}{
		{"News", factory.NewNewsSearcher(cfg), "news"},
		{"Reddit", factory.NewSocialSearcher(cfg), "social"},
	}
	for _, o := range optional {
		if o.searcher == nil {
			continue
		}
		opts := append([]research.ToolOption{research.WithTopic(o.topic)}, toolOpts...)
		tools = append(tools, research.NewSearcherTool(o.name, o.searcher, opts...))
	}
	logger.Log.Infof("研究工具已就绪: %d 个", len(tools))
	return tools, nil
}

// RunOptions 运行选项
type RunOptions struct {
	Profile          model.CompanyProfile
	ProgressCallback func(status string, progress int)
}

// Result 一次运行的结果。阶段失败记录在 State 中
type Result struct {
	RunID      string         `json:"run_id"`
	WorkflowID string         `json:"workflow_id"`
	State      workflow.State `json:"state"`
}

// Summary 运行结果计数
type Summary struct {
	Status          string  `json:"status"`
	CurrentStep     string  `json:"current_step"`
	TrendsFound     int     `json:"trends_found"`
	StrategyCreated bool    `json:"strategy_created"`
	BriefsGenerated int     `json:"briefs_generated"`
	Error           *string `json:"error"`
}

// Summary 汇总最终状态
func (r *Result) Summary() Summary {
	s := Summary{
		Status:          r.State.Status(),
		CurrentStep:     string(r.State.CurrentStep),
		StrategyCreated: r.State.Strategy != nil,
		Error:           r.State.Error,
	}
	if r.State.Trends != nil {
		s.TrendsFound = len(r.State.Trends.TrendingTopics)
	}
	if r.State.Briefs != nil {
		s.BriefsGenerated = len(r.State.Briefs.ContentBriefs)
	}
	return s
}

// Run 执行一次完整的内容流水线。
// 只有画像不合法时返回 error；阶段失败体现在 Result.State 中，持久化失败只记录日志。
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if err := opts.Profile.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	companyID := opts.Profile.CompanyID
	workflowID := storage.WorkflowID(companyID, e.now())
	log := logger.WithRun(runID, companyID)

	log.Infof("开始为公司 [%s] 生成内容计划: %s", opts.Profile.CompanyName, workflowID)
	progress(opts.ProgressCallback, "starting", 0)

	if e.store != nil {
		if err := e.store.CreateRun(ctx, runID, workflowID, companyID, e.now()); err != nil {
			log.Errorf("无法创建运行记录: %v", err)
		}
	}

	total := len(e.stages)
	done := 0
	observer := workflow.WithObserver(func(stat workflow.StageStat, _ workflow.State) {
		done++
		pct := int(math.Round(float64(done) / float64(total) * 100))
		progress(opts.ProgressCallback, fmt.Sprintf("%s: %s", stat.Name, stat.Status), pct)
	})
	orch := workflow.New(e.stages, append(slices.Clip(e.orchOpts), observer)...)

	final := orch.RunWithID(ctx, runID, opts.Profile)

	if e.store != nil {
		// 调用方取消后仍然保存结果
		if err := e.store.CompleteRun(context.WithoutCancel(ctx), final); err != nil {
			log.Errorf("保存运行结果失败: %v", err)
		}
	}

	res := &Result{RunID: runID, WorkflowID: workflowID, State: final}
	sum := res.Summary()
	log.Infof("运行结束: status=%s, 话题 %d 个, 简报 %d 份", sum.Status, sum.TrendsFound, sum.BriefsGenerated)
	return res, nil
}

func progress(cb func(string, int), status string, pct int) {
	if cb != nil {
		cb(status, pct)
	}
}
