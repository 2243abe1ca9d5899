package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/core/auth"
	"projectdesk/internal/domain"
	resp "projectdesk/internal/transport/http/response"
)

const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"

	CtxUser   = "user"
	CtxUserID = "userId"
	CtxRole   = "role"
)

// RequireAuth cookie 优先，其次 Authorization: Bearer。
// 401 消息区分 expired / malformed / not active，客户端靠这个决定是否静默刷新
func RequireAuth(j *auth.Issuer, users domain.UserRepository, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if v, err := c.Cookie(CookieAccessToken); err == nil && v != "" {
			token = v
		} else if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
		}
		if token == "" {
			resp.AbortError(c, resp.CodeUnauthorized, "access token missing")
			return
		}

		claims, err := j.VerifyAccess(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpired):
				resp.AbortError(c, resp.CodeUnauthorized, "access token expired")
			case errors.Is(err, auth.ErrMalformed):
				resp.AbortError(c, resp.CodeUnauthorized, "invalid access token format")
			case errors.Is(err, auth.ErrNotYetValid):
				resp.AbortError(c, resp.CodeUnauthorized, "access token not active")
			default:
				resp.AbortError(c, resp.CodeUnauthorized, "invalid access token")
			}
			return
		}

		u, err := users.FindByID(c.Request.Context(), claims.UID)
		if err != nil {
			resp.AbortError(c, resp.CodeServerError, "internal error")
			return
		}
		if u == nil {
			resp.AbortError(c, resp.CodeUnauthorized, "invalid access token - user not found")
			return
		}
		if requireRole != "" && u.Role != requireRole {
			resp.AbortError(c, resp.CodeForbidden, "forbidden")
			return
		}

		sanitized := u.Sanitized()
		c.Set(CtxUser, &sanitized)
		c.Set(CtxUserID, sanitized.ID)
		c.Set(CtxRole, sanitized.Role)
		c.Next()
	}
}

// CurrentUser 取中间件塞入的已脱敏用户
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}
