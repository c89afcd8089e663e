package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/conf"
	"github.com/iWorld-y/content_flow/app/content_flow/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.WorkflowService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	RegisterWorkflowHTTPServer(srv, s)
	return srv
}

// RegisterWorkflowHTTPServer 注册工作流路由
func RegisterWorkflowHTTPServer(srv *http.Server, s *service.WorkflowService) {
	r := srv.Route("/")
	r.POST("/v1/workflows/run", s.RunWorkflow)
	r.GET("/v1/companies/{company_id}/workflows", s.ListWorkflows)
	r.GET("/v1/workflows/{workflow_id}", s.GetWorkflow)
	r.GET("/healthz", s.Health)
}
