package data

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/domain"
	"github.com/iWorld-y/content_flow/app/content_flow/internal/repo"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/storage"
)

type workflowRepo struct {
	data *Data
	log  *log.Helper
}

// NewWorkflowRepo 创建运行记录仓库
func NewWorkflowRepo(data *Data, logger log.Logger) repo.WorkflowRepo {
	return &workflowRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *workflowRepo) ListRuns(ctx context.Context, companyID string, limit int) ([]*domain.WorkflowRun, error) {
	if r.data.store == nil {
		return nil, errStorageDisabled()
	}
	records, err := r.data.store.ListRuns(ctx, companyID, limit)
	if err != nil {
		return nil, err
	}
	runs := make([]*domain.WorkflowRun, 0, len(records))
	for i := range records {
		runs = append(runs, toRun(&records[i]))
	}
	return runs, nil
}

func (r *workflowRepo) GetRun(ctx context.Context, workflowID string) (*domain.WorkflowDetail, error) {
	if r.data.store == nil {
		return nil, errStorageDisabled()
	}
	detail, err := r.data.store.GetRun(ctx, workflowID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NotFound("WORKFLOW_NOT_FOUND", "workflow not found")
		}
		return nil, err
	}
	return &domain.WorkflowDetail{
		Run:      toRun(&detail.RunRecord),
		Trends:   detail.Trends,
		Strategy: detail.Strategy,
		Briefs:   detail.Briefs,
	}, nil
}

func errStorageDisabled() error {
	return errors.ServiceUnavailable("STORAGE_DISABLED", "workflow history requires a database")
}

func toRun(r *storage.RunRecord) *domain.WorkflowRun {
	return &domain.WorkflowRun{
		ID:              r.ID,
		WorkflowID:      r.WorkflowID,
		CompanyID:       r.CompanyID,
		Status:          r.Status,
		CurrentStep:     r.CurrentStep,
		TrendsFound:     r.TrendsFound,
		StrategyCreated: r.StrategyCreated,
		BriefsGenerated: r.BriefsGenerated,
		ErrorMessage:    r.ErrorMessage,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
	}
}
