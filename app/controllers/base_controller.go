package controllers

import (
	"net/http"

	"github.com/beego/beego/v2/server/web"

	apperrors "github.com/milvuschat/backend-go/internal/errors"
)

// BaseController provides helpers for consistent JSON responses.
type BaseController struct {
	web.Controller
}

// JSON writes a JSON response with the supplied HTTP status code.
func (c *BaseController) JSON(status int, payload interface{}) {
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = payload
	c.ServeJSON()
}

// JSONError writes an error envelope with message.
func (c *BaseController) JSONError(status int, message string) {
	c.JSON(status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// JSONAppError 将AppError按其错误码和HTTP状态码写出
func (c *BaseController) JSONAppError(err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, map[string]interface{}{
		"success": false,
		"code":    appErr.Code,
		"error":   appErr.Message,
	})
}
