package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/milvuschat/backend-go/app/bootstrap"
	"github.com/milvuschat/backend-go/internal/services"
)

// AddDataRequest 数据摄入请求
type AddDataRequest struct {
	Text     string `json:"text" validate:"required"`
	Metadata string `json:"metadata"`
}

// DataController 数据摄入与存储信息控制器
type DataController struct {
	BaseController
	ragService *services.RAGService
}

func (c *DataController) Prepare() {
	if c.ragService == nil {
		if app := bootstrap.GetApp(); app != nil {
			c.ragService = app.RAGService()
		}
	}
}

// AddData 添加一条文本到向量存储
func (c *DataController) AddData() {
	var req AddDataRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSONAppError(errTranslator.Translate(err))
		return
	}

	id, err := c.ragService.Ingest(c.Ctx.Request.Context(), req.Text, req.Metadata)
	if err != nil {
		c.JSONAppError(err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"id":     id,
		"status": "ok",
	})
}

// AddSampleData 批量写入演示语料
func (c *DataController) AddSampleData() {
	inserted, err := c.ragService.AddSampleData(c.Ctx.Request.Context())
	if err != nil {
		c.JSONAppError(err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"inserted": inserted,
	})
}

// Info 返回存储后端与文档数量
func (c *DataController) Info() {
	info, err := c.ragService.Info(c.Ctx.Request.Context())
	if err != nil {
		c.JSONAppError(err)
		return
	}

	c.JSON(http.StatusOK, info)
}
