package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/config"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/engine"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/storage"
)

var (
	flagconf    string
	flagprofile string
	flagout     string
	flaghtml    string
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/content_flow/configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagprofile, "profile", "app/content_flow/configs/profile.yaml", "company profile path")
	flag.StringVar(&flagout, "out", "", "write the final state as JSON to this file")
	flag.StringVar(&flaghtml, "html", "", "render the briefs as an HTML page to this file")
}

func main() {
	flag.Parse()
	os.Exit(run(flagconf, flagprofile, flagout, flaghtml))
}

// run 执行一次流水线并返回退出码，延迟关闭的资源在返回前释放
func run(confPath, profilePath, outPath, htmlPath string) int {
	// 1. 加载配置
	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		log.Printf("无法加载配置文件: %v", err)
		return 1
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Printf("无法初始化日志: %v", err)
		return 1
	}

	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		logger.Log.Errorf("无法加载公司画像: %v", err)
		return 1
	}
	logger.Log.Infof("启动内容流水线: %s", profile.CompanyName)

	// 如果配置了数据库信息，则尝试连接
	var store *storage.Storage
	if cfg.DB.Enabled() {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 结果将不会保存。", err)
		} else {
			store = s
			defer store.Close()
			logger.Log.Info("已成功连接到数据库")
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过数据库连接")
	}

	// 3. 初始化引擎
	eng, err := engine.NewEngine(cfg, store)
	if err != nil {
		logger.Log.Errorf("引擎初始化失败: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. 执行
	res, err := eng.Run(ctx, engine.RunOptions{
		Profile: *profile,
		ProgressCallback: func(status string, progress int) {
			logger.Log.Infof("[%3d%%] %s", progress, status)
		},
	})
	if err != nil {
		logger.Log.Errorf("运行失败: %v", err)
		return 1
	}

	// 5. 输出
	if outPath != "" {
		if err := writeJSON(outPath, res); err != nil {
			logger.Log.Errorf("写入结果失败: %v", err)
		} else {
			logger.Log.Infof("结果已写入 %s", outPath)
		}
	}
	if htmlPath != "" {
		if err := generateHTML(htmlPath, res); err != nil {
			logger.Log.Errorf("生成 HTML 失败: %v", err)
		} else {
			logger.Log.Infof("简报页面已生成: %s", htmlPath)
		}
	}

	sum := res.Summary()
	logger.Log.Infof("完成: %s, step=%s, 话题 %d 个, 策略 %v, 简报 %d 份",
		res.WorkflowID, sum.CurrentStep, sum.TrendsFound, sum.StrategyCreated, sum.BriefsGenerated)
	return exitCode(sum)
}

// exitCode 运行失败时返回非零
func exitCode(sum engine.Summary) int {
	if sum.Error != nil {
		logger.Log.Errorf("运行未完全成功: %s", *sum.Error)
		return 1
	}
	return 0
}

func writeJSON(path string, res *engine.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
