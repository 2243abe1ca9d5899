package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "projectdesk/internal/transport/http/response"
)

// MaxBodyBytes 请求体上限；头像/文档等上传体都从这里过
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()

		if c.Err() != nil && !c.Writer.Written() {
			resp.AbortError(c, resp.CodeBadRequest, "request body too large")
		}
	}
}
