package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	resp "projectdesk/internal/transport/http/response"
)

const attemptWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

// AttemptLimit 登录/注册固定窗口限流（redis 计数，多实例共享）。
// redis 未配置或出错时放行，限流只是防护不是闸门
func AttemptLimit(rdb *redis.Client, window time.Duration, maxAttempts int) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 8
	}
	return func(c *gin.Context) {
		key := "auth:rl:" + c.ClientIP() + ":" + c.FullPath()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		count, err := rdb.Eval(ctx, attemptWindowScript, []string{key}, int(window.Seconds())).Int()
		if err != nil {
			c.Next()
			return
		}
		if count > maxAttempts {
			resp.AbortError(c, resp.CodeTooMany, "too many attempts, please try again later")
			return
		}
		c.Next()
	}
}
