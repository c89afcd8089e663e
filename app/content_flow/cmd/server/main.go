package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/content_flow/app/content_flow/internal/conf"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "content_flow"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/content_flow/configs/server.yaml", "config path, eg: -conf server.yaml")
}

// envPrefix 以该前缀开头的环境变量去掉前缀后用于替换配置文件中的 ${KEY:default} 占位符
const envPrefix = "CONTENT_FLOW_"

// loadBootstrap 读取配置文件并解析环境变量占位符
func loadBootstrap(path string) (*conf.Bootstrap, error) {
	c := config.New(
		config.WithSource(
			file.NewSource(path),
			env.NewSource(envPrefix),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		return nil, err
	}
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		return nil, err
	}
	if bc.Server == nil || bc.Server.Http == nil {
		return nil, fmt.Errorf("%s: server.http is required", path)
	}
	if bc.Flow == nil {
		bc.Flow = &conf.Flow{}
	}
	return &bc, nil
}

func main() {
	flag.Parse()
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	bc, err := loadBootstrap(flagconf)
	if err != nil {
		panic(err)
	}

	app, cleanup, err := initApp(bc.Server, bc.Flow, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}
