// @title SurveyHub 后端 API
// @version 1.0
// @description 问卷/测评平台的后端服务器，支持题库抽题、自动判分与邀请分发。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"surveyhub_backend/internal/app"
	"surveyhub_backend/internal/config"
	"surveyhub_backend/pkg/configwatcher"
	"surveyhub_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 配置热更新：判分阈值等可在不重启的情况下生效
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(raw interface{}) {
		updated, ok := raw.(*config.Config)
		if !ok {
			return
		}
		cfg.Survey = updated.Survey
		cfg.RateLimit = updated.RateLimit
		logger.Log.Info("Configuration reloaded")
	})

	application.Run()
}
