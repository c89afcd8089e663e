package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/data"
	"github.com/iWorld-y/content_flow/app/content_flow/internal/service"
	"github.com/iWorld-y/content_flow/app/content_flow/internal/usecase"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/engine"
)

// ProviderSet 是内容流水线服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewEngine,

	// Data providers
	data.NewData,
	data.NewWorkflowRepo,

	// UseCase providers
	usecase.NewWorkflowUseCase,
	wire.Bind(new(usecase.Runner), new(*engine.Engine)),

	// Service providers
	service.NewWorkflowService,
)
