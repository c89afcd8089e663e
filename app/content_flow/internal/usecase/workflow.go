package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/domain"
	"github.com/iWorld-y/content_flow/app/content_flow/internal/repo"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/engine"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/storage"
)

// Runner 执行一次流水线，engine.Engine 实现了该接口
type Runner interface {
	Run(ctx context.Context, opts engine.RunOptions) (*engine.Result, error)
}

// WorkflowUseCase 工作流业务逻辑
type WorkflowUseCase struct {
	runner Runner
	repo   repo.WorkflowRepo
	log    *log.Helper
}

// NewWorkflowUseCase 创建工作流业务逻辑实例
func NewWorkflowUseCase(runner Runner, repo repo.WorkflowRepo, logger log.Logger) *WorkflowUseCase {
	return &WorkflowUseCase{runner: runner, repo: repo, log: log.NewHelper(logger)}
}

// Run 同步执行一次流水线。画像不合法返回 400，阶段失败体现在结果中
func (uc *WorkflowUseCase) Run(ctx context.Context, profile model.CompanyProfile) (*engine.Result, error) {
	res, err := uc.runner.Run(ctx, engine.RunOptions{
		Profile: profile,
		ProgressCallback: func(status string, progress int) {
			uc.log.WithContext(ctx).Debugf("workflow progress %d%%: %s", progress, status)
		},
	})
	if err != nil {
		if model.IsSchemaError(err) {
			return nil, errors.BadRequest("INVALID_PROFILE", err.Error())
		}
		return nil, err
	}
	return res, nil
}

// History 列出公司最近的运行记录，limit 非正数时取默认值
func (uc *WorkflowUseCase) History(ctx context.Context, companyID string, limit int) ([]*domain.WorkflowRun, error) {
	if companyID == "" {
		return nil, errors.BadRequest("MISSING_COMPANY_ID", "company_id is required")
	}
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}
	return uc.repo.ListRuns(ctx, companyID, limit)
}

// Get 获取运行详情
func (uc *WorkflowUseCase) Get(ctx context.Context, workflowID string) (*domain.WorkflowDetail, error) {
	return uc.repo.GetRun(ctx, workflowID)
}
