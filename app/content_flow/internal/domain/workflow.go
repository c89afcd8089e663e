package domain

import (
	"time"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
)

// WorkflowRun 一次运行的记录
type WorkflowRun struct {
	ID              string     `json:"id"`
	WorkflowID      string     `json:"workflow_id"`
	CompanyID       string     `json:"company_id"`
	Status          string     `json:"status"`
	CurrentStep     string     `json:"current_step"`
	TrendsFound     int        `json:"trends_found"`
	StrategyCreated bool       `json:"strategy_created"`
	BriefsGenerated int        `json:"briefs_generated"`
	ErrorMessage    *string    `json:"error_message"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// WorkflowDetail 运行记录及其产出
type WorkflowDetail struct {
	Run      *WorkflowRun                 `json:"run"`
	Trends   []model.TrendingTopic        `json:"trends"`
	Strategy *model.ContentStrategyOutput `json:"strategy"`
	Briefs   []model.ContentBrief         `json:"briefs"`
}
