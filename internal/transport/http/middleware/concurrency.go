package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "projectdesk/internal/transport/http/response"
)

// ConcurrencyLimit 限制在途请求数，护住 DB 连接池和对象存储带宽。
// Acquire 随请求 context 取消，排队中的断连请求会自动让位
func ConcurrencyLimit(limit int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(limit)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			resp.AbortError(c, resp.CodeServerError, "server busy")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
