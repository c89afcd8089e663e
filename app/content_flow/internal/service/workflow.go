package service

import (
	"context"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/domain"
	"github.com/iWorld-y/content_flow/app/content_flow/internal/usecase"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/engine"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/workflow"
)

const (
	OperationRunWorkflow   = "/content_flow.v1.Workflow/RunWorkflow"
	OperationListWorkflows = "/content_flow.v1.Workflow/ListWorkflows"
	OperationGetWorkflow   = "/content_flow.v1.Workflow/GetWorkflow"
)

// WorkflowService 工作流 HTTP 接口
type WorkflowService struct {
	uc  *usecase.WorkflowUseCase
	log *log.Helper
}

func NewWorkflowService(uc *usecase.WorkflowUseCase, logger log.Logger) *WorkflowService {
	return &WorkflowService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// RunData 三个阶段的产出，失败的阶段为 null
type RunData struct {
	Trends   *model.TrendResearchOutput   `json:"trends"`
	Strategy *model.ContentStrategyOutput `json:"strategy"`
	Briefs   *model.BriefGenerationOutput `json:"briefs"`
}

// RunReply POST /v1/workflows/run 的响应
type RunReply struct {
	Success    bool                 `json:"success"`
	RunID      string               `json:"run_id"`
	WorkflowID string               `json:"workflow_id"`
	Summary    engine.Summary       `json:"summary"`
	Stages     []workflow.StageStat `json:"stages"`
	Data       RunData              `json:"data"`
}

// ListReply 历史记录响应
type ListReply struct {
	CompanyID string                `json:"company_id"`
	Workflows []*domain.WorkflowRun `json:"workflows"`
	Count     int                   `json:"count"`
}

// RunWorkflow 同步执行一次流水线。运行失败返回 500，但仍带上已产出的数据
func (s *WorkflowService) RunWorkflow(ctx http.Context) error {
	var in model.CompanyProfile
	if err := ctx.Bind(&in); err != nil {
		return errors.BadRequest("INVALID_BODY", err.Error())
	}
	http.SetOperation(ctx, OperationRunWorkflow)
	h := ctx.Middleware(func(c context.Context, req any) (any, error) {
		return s.uc.Run(c, *req.(*model.CompanyProfile))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}

	res := out.(*engine.Result)
	reply := &RunReply{
		Success:    !res.State.Failed(),
		RunID:      res.RunID,
		WorkflowID: res.WorkflowID,
		Summary:    res.Summary(),
		Stages:     res.State.Stages,
		Data: RunData{
			Trends:   res.State.Trends,
			Strategy: res.State.Strategy,
			Briefs:   res.State.Briefs,
		},
	}
	code := 200
	if res.State.Failed() {
		s.log.WithContext(ctx).Warnf("workflow %s failed: %s", res.WorkflowID, *res.State.Error)
		code = 500
	}
	return ctx.JSON(code, reply)
}

// ListWorkflows 查询公司的运行历史
func (s *WorkflowService) ListWorkflows(ctx http.Context) error {
	companyID := ctx.Vars().Get("company_id")
	limit := 0
	if v := ctx.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return errors.BadRequest("INVALID_LIMIT", "limit must be a non-negative integer")
		}
		limit = n
	}

	http.SetOperation(ctx, OperationListWorkflows)
	h := ctx.Middleware(func(c context.Context, _ any) (any, error) {
		return s.uc.History(c, companyID, limit)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	runs := out.([]*domain.WorkflowRun)
	return ctx.JSON(200, &ListReply{CompanyID: companyID, Workflows: runs, Count: len(runs)})
}

// GetWorkflow 查询单次运行的详情
func (s *WorkflowService) GetWorkflow(ctx http.Context) error {
	workflowID := ctx.Vars().Get("workflow_id")

	http.SetOperation(ctx, OperationGetWorkflow)
	h := ctx.Middleware(func(c context.Context, _ any) (any, error) {
		return s.uc.Get(c, workflowID)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.JSON(200, out)
}

// Health 健康检查
func (s *WorkflowService) Health(ctx http.Context) error {
	return ctx.JSON(200, map[string]string{"status": "ok"})
}
