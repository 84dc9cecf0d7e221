package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Template string      `json:"template,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

const (
	CodeOK             = 0
	CodeBadRequest     = 400
	CodeUnauthorized   = 401
	CodeNotFound       = 404
	CodeInternalError  = 500
	CodeTooManyRequest = 429
)

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Message: "ok", Data: data})
}

// Render 成功响应，带上模板标识，交给渲染端处理
func Render(c *gin.Context, template string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Message: "ok", Template: template, Data: data})
}

// ValidationFailed 表单校验失败：同一模板，带回提交的数据与字段错误
func ValidationFailed(c *gin.Context, template string, data interface{}) {
	c.JSON(http.StatusBadRequest, Response{Code: CodeBadRequest, Message: "validation failed", Template: template, Data: data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: CodeBadRequest, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: CodeUnauthorized, Message: msg})
}

func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Code: CodeTooManyRequest, Message: "too many requests"})
}

// NotFound 404，带上请求路径
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:     CodeNotFound,
		Message:  "not found",
		Template: "misc/404.html",
		Data:     gin.H{"path": c.Request.URL.Path},
	})
}

// InternalError 500，不向客户端暴露错误细节
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:     CodeInternalError,
		Message:  "internal server error",
		Template: "misc/500.html",
	})
}

// Redirect 302 跳转
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
