package workflow

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
)

// Step 工作流进度标签，只会向前推进
type Step string

const (
	StepStart               Step = "start"
	StepTrendResearchDone   Step = "trend_research_done"
	StepContentStrategyDone Step = "content_strategy_done"
	StepBriefGenerationDone Step = "brief_generation_done"
)

func (s Step) rank() int {
	switch s {
	case StepTrendResearchDone:
		return 1
	case StepContentStrategyDone:
		return 2
	case StepBriefGenerationDone:
		return 3
	default:
		return 0
	}
}

// 运行状态
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StageStatus 单个阶段的执行结果
type StageStatus string

const (
	StageSuccess StageStatus = "success"
	StageFailed  StageStatus = "failed"
	StageSkipped StageStatus = "skipped"
)

// StageStat 单个阶段的执行统计
type StageStat struct {
	Name       string        `json:"name"`
	Status     StageStatus   `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration_ns"`
	Error      string        `json:"error,omitempty"`
}

// StageError 阶段失败，Error() 形如 "Trend Research Failed: <cause>"
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s Failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// State 一次运行的完整状态。按值传递，通过 apply 产生新值，调用方拿到的副本不会被改动。
type State struct {
	RunID       string                       `json:"run_id"`
	CompanyID   string                       `json:"company_id"`
	Profile     model.CompanyProfile         `json:"profile"`
	Trends      *model.TrendResearchOutput   `json:"trends"`
	Strategy    *model.ContentStrategyOutput `json:"strategy"`
	Briefs      *model.BriefGenerationOutput `json:"briefs"`
	Error       *string                      `json:"error"`
	CurrentStep Step                         `json:"current_step"`
	StartedAt   time.Time                    `json:"started_at"`
	FinishedAt  time.Time                    `json:"finished_at"`
	Stages      []StageStat                  `json:"stages"`

	err error
}

// NewState 创建初始状态
func NewState(runID string, profile model.CompanyProfile) State {
	p := profile.Clone()
	return State{
		RunID:       runID,
		CompanyID:   p.CompanyID,
		Profile:     p,
		CurrentStep: StepStart,
	}
}

// Err 返回第一个阶段错误，没有失败时为 nil
func (s State) Err() error {
	if s.err != nil {
		return s.err
	}
	if s.Error != nil {
		return errors.New(*s.Error)
	}
	return nil
}

// Failed 是否有阶段失败
func (s State) Failed() bool {
	return s.Error != nil
}

// Succeeded 三个阶段全部成功
func (s State) Succeeded() bool {
	return s.Error == nil && s.CurrentStep == StepBriefGenerationDone
}

// Status 运行结果：无错误为 completed，否则为 failed
func (s State) Status() string {
	if s.Error != nil {
		return StatusFailed
	}
	return StatusCompleted
}

// Patch 阶段成功后对状态的增量修改
type Patch struct {
	Trends   *model.TrendResearchOutput
	Strategy *model.ContentStrategyOutput
	Briefs   *model.BriefGenerationOutput
	Step     Step
}

// apply 返回应用 patch 后的新状态。
// 已有的产出不会被替换；出现错误后进度标签不再前进。
func (s State) apply(p Patch) State {
	next := s.copy()
	if next.Trends == nil && p.Trends != nil {
		next.Trends = p.Trends
	}
	if next.Strategy == nil && p.Strategy != nil {
		next.Strategy = p.Strategy
	}
	if next.Briefs == nil && p.Briefs != nil {
		next.Briefs = p.Briefs
	}
	if next.Error == nil && p.Step.rank() > next.CurrentStep.rank() {
		next.CurrentStep = p.Step
	}
	return next
}

// fail 记录阶段错误，只保留第一个
func (s State) fail(err *StageError) State {
	next := s.copy()
	if next.Error == nil {
		msg := err.Error()
		next.Error = &msg
		next.err = err
	}
	return next
}

func (s State) record(stat StageStat) State {
	next := s.copy()
	next.Stages = append(next.Stages, stat)
	return next
}

func (s State) copy() State {
	next := s
	next.Stages = slices.Clone(s.Stages)
	return next
}
