package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, New(CodeOK, CodeMsgMap[CodeOK], data))
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, New(CodeOK, CodeMsgMap[CodeOK], data))
}

// OKMsg 只带说明文字、不带数据的成功响应
func OKMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, New(CodeOK, msg, nil))
}

// Error HTTP 状态码跟随业务码，客户端按状态码分支
func Error(c *gin.Context, code int, customMsg string) {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	status := code
	if _, known := CodeMsgMap[code]; !known || code == CodeOK {
		status = http.StatusInternalServerError
	}
	c.JSON(status, New(code, msg, struct{}{}))
}

func AbortError(c *gin.Context, code int, customMsg string) {
	Error(c, code, customMsg)
	c.Abort()
}
