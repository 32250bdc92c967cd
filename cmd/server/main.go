package main

import (
	"log"
	"strconv"

	"github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"

	"github.com/milvuschat/backend-go/app/bootstrap"
	"github.com/milvuschat/backend-go/app/router"
	"github.com/milvuschat/backend-go/internal/config"
	"github.com/milvuschat/backend-go/internal/logger"
)

func main() {
	app, err := bootstrap.Init()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %v", err)
	}
	defer app.Shutdown()

	router.Init()

	// 配置Beego全局设置
	web.BConfig.AppName = "Milvus RAG Chat Backend"
	web.BConfig.CopyRequestBody = true

	port := 8000
	if p, err := strconv.Atoi(config.GetAppConfig().Server.Port); err == nil {
		port = p
	}
	web.BConfig.Listen.HTTPPort = port

	logger.Info("🚀 Starting RAG chat backend",
		zap.Int("port", port),
		zap.String("store_backend", app.StoreBackend()))
	web.Run()
}
