package controllers

import (
	"net/http"
	"time"

	"github.com/milvuschat/backend-go/app/bootstrap"
	"github.com/milvuschat/backend-go/internal/services"
)

// RootController 健康检查控制器
type RootController struct {
	BaseController
	ragService *services.RAGService
}

func (c *RootController) Prepare() {
	if c.ragService == nil {
		if app := bootstrap.GetApp(); app != nil {
			c.ragService = app.RAGService()
		}
	}
}

// Index 返回服务与存储状态
func (c *RootController) Index() {
	app := bootstrap.GetApp()

	milvusStatus := "Not available"
	storageType := "In-Memory Fallback"
	if app != nil && app.MilvusAvailable() {
		milvusStatus = "Connected"
		storageType = "Milvus Vector DB"
	}

	var totalVectors int64
	if c.ragService != nil {
		if info, err := c.ragService.Info(c.Ctx.Request.Context()); err == nil {
			totalVectors = info.Count
		}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"message":       "Milvus Vector Database Backend is running!",
		"timestamp":     time.Now().Unix(),
		"milvus_status": milvusStatus,
		"storage_type":  storageType,
		"total_vectors": totalVectors,
	})
}

// TestOpenAI 测试生成服务连通性
// 诊断接口，无论成败都返回200，错误放在响应体里
func (c *RootController) TestOpenAI() {
	reply, err := c.ragService.CheckProvider(c.Ctx.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "success",
		"response": reply,
	})
}
