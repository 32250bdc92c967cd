package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/milvuschat/backend-go/app/bootstrap"
	apperrors "github.com/milvuschat/backend-go/internal/errors"
	"github.com/milvuschat/backend-go/internal/services"
)

var validate = validator.New()

var errTranslator = apperrors.NewErrorTranslator()

// ChatRequest 聊天请求
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Reply        string   `json:"reply"`
	ContextUsed  []string `json:"contextUsed"`
	SearchMethod string   `json:"searchMethod"`
}

// ChatController 聊天控制器
type ChatController struct {
	BaseController
	ragService *services.RAGService
}

func (c *ChatController) Prepare() {
	if c.ragService == nil {
		if app := bootstrap.GetApp(); app != nil {
			c.ragService = app.RAGService()
		}
	}
}

// Chat 执行RAG问答
func (c *ChatController) Chat() {
	var req ChatRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSONAppError(errTranslator.Translate(err))
		return
	}

	result, err := c.ragService.Chat(c.Ctx.Request.Context(), req.Message)
	if err != nil {
		c.JSONAppError(err)
		return
	}

	// contextUsed始终序列化为数组，空结果不输出null
	contextUsed := result.ContextUsed
	if contextUsed == nil {
		contextUsed = []string{}
	}

	c.JSON(http.StatusOK, ChatResponse{
		Reply:        result.Reply,
		ContextUsed:  contextUsed,
		SearchMethod: result.SearchMethod,
	})
}
