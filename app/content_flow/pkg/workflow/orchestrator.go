package workflow

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
)

// Stage 流水线中的一个阶段。upstreamFailed 表示之前已有阶段失败。
// 返回错误时 Patch 被忽略。
type Stage interface {
	Name() string
	Run(ctx context.Context, s State, upstreamFailed bool) (Patch, error)
}

// Policy 阶段失败后的处理策略
type Policy string

const (
	// PolicyContinue 继续执行后续阶段，尽量收集部分结果
	PolicyContinue Policy = "continue"
	// PolicyFailFast 出错后跳过后续阶段
	PolicyFailFast Policy = "fail_fast"
)

// ParsePolicy 解析配置中的策略，空字符串视为 continue
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyContinue:
		return PolicyContinue, nil
	case PolicyFailFast:
		return PolicyFailFast, nil
	default:
		return "", fmt.Errorf("unknown workflow policy: %q", s)
	}
}

// Observer 每个阶段结束后回调
type Observer func(stat StageStat, s State)

// Orchestrator 按固定顺序执行各阶段
type Orchestrator struct {
	stages   []Stage
	policy   Policy
	timeout  time.Duration
	now      func() time.Time
	observer Observer
}

// Option Orchestrator 选项
type Option func(*Orchestrator)

// WithPolicy 设置失败策略
func WithPolicy(p Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithTimeout 设置单次运行的总时长上限，0 表示不限制
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithObserver 设置阶段回调
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// New 创建 Orchestrator
func New(stages []Stage, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		stages: stages,
		policy: PolicyContinue,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run 以新的运行 ID 执行流水线
func (o *Orchestrator) Run(ctx context.Context, profile model.CompanyProfile) State {
	return o.RunWithID(ctx, uuid.NewString(), profile)
}

// RunWithID 执行流水线并返回最终状态。阶段错误记录在状态中，不会作为返回值抛出。
func (o *Orchestrator) RunWithID(ctx context.Context, runID string, profile model.CompanyProfile) State {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	state := NewState(runID, profile)
	state.StartedAt = o.now()
	log := logger.WithRun(runID, state.CompanyID)

	for _, stage := range o.stages {
		if state.Failed() && o.policy == PolicyFailFast {
			now := o.now()
			stat := StageStat{Name: stage.Name(), Status: StageSkipped, StartedAt: now, FinishedAt: now}
			state = state.record(stat)
			log.Infof("跳过阶段 [%s]", stage.Name())
			o.notify(stat, state)
			continue
		}

		started := o.now()
		log.Infof("开始阶段 [%s]", stage.Name())
		patch, err := o.runStage(ctx, stage, state)
		finished := o.now()

		stat := StageStat{
			Name:       stage.Name(),
			StartedAt:  started,
			FinishedAt: finished,
			Duration:   finished.Sub(started),
		}
		if err != nil {
			stageErr := &StageError{Stage: stage.Name(), Err: err}
			stat.Status = StageFailed
			stat.Error = stageErr.Error()
			state = state.fail(stageErr)
			log.Errorf("阶段失败: %v", stageErr)
		} else {
			stat.Status = StageSuccess
			state = state.apply(patch)
			log.Infof("阶段完成 [%s]，耗时 %v", stage.Name(), stat.Duration)
		}
		state = state.record(stat)
		o.notify(stat, state)
	}

	state.FinishedAt = o.now()
	log.Infof("运行结束: status=%s step=%s", state.Status(), state.CurrentStep)
	return state
}

// runStage 执行单个阶段，panic 转为错误
func (o *Orchestrator) runStage(ctx context.Context, stage Stage, s State) (patch Patch, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("阶段 [%s] panic: %v\n%s", stage.Name(), r, debug.Stack())
			patch = Patch{}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return stage.Run(ctx, s, s.Failed())
}

func (o *Orchestrator) notify(stat StageStat, s State) {
	if o.observer != nil {
		o.observer(stat, s)
	}
}
