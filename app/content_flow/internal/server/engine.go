package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/conf"
	"github.com/iWorld-y/content_flow/app/content_flow/internal/data"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/engine"
	cfLogger "github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
)

// NewEngine 初始化 content_flow 引擎，复用 data 层的数据库连接
func NewEngine(c *conf.Flow, d *data.Data, logger log.Logger) (*engine.Engine, func(), error) {
	helper := log.NewHelper(logger)
	cfg := c.ToConfig()

	// 初始化日志
	if err := cfLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init content_flow logger: %v", err)
		_ = cfLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(cfg, d.Store())
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up content_flow engine")
	}
	return eng, cleanup, nil
}
