package repo

import (
	"context"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/domain"
)

// WorkflowRepo 运行记录仓库接口
type WorkflowRepo interface {
	// ListRuns 按开始时间倒序列出公司的运行记录
	ListRuns(ctx context.Context, companyID string, limit int) ([]*domain.WorkflowRun, error)
	// GetRun 根据 workflow_id 获取运行详情
	GetRun(ctx context.Context, workflowID string) (*domain.WorkflowDetail, error)
}
