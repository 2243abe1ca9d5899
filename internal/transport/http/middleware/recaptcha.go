package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projectdesk/internal/core/config"
	resp "projectdesk/internal/transport/http/response"
)

type recaptchaResult struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Recaptcha 人机校验，SecretKey 为空时直接放行。
// token 取 X-Recaptcha-Token 头，其次表单字段 recaptchaToken
func Recaptcha(cfg config.Recaptcha, l *zap.Logger) gin.HandlerFunc {
	if cfg.SecretKey == "" {
		return func(c *gin.Context) { c.Next() }
	}
	verifyURL := cfg.VerifyURL
	if verifyURL == "" {
		verifyURL = "https://www.google.com/recaptcha/api/siteverify"
	}
	client := &http.Client{Timeout: 10 * time.Second}

	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("X-Recaptcha-Token"))
		if token == "" {
			token = strings.TrimSpace(c.PostForm("recaptchaToken"))
		}
		if token == "" {
			resp.AbortError(c, resp.CodeBadRequest, "recaptcha token is required")
			return
		}
		if len(token) < 20 {
			resp.AbortError(c, resp.CodeBadRequest, "invalid recaptcha token format")
			return
		}

		form := url.Values{
			"secret":   {cfg.SecretKey},
			"response": {token},
			"remoteip": {c.ClientIP()},
		}
		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, verifyURL, strings.NewReader(form.Encode()))
		if err != nil {
			resp.AbortError(c, resp.CodeServerError, "recaptcha verification error")
			return
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		res, err := client.Do(req)
		if err != nil {
			l.Error("recaptcha verify request failed", zap.Error(err))
			resp.AbortError(c, resp.CodeServerError, "recaptcha verification error")
			return
		}
		defer res.Body.Close()

		var out recaptchaResult
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			l.Error("recaptcha verify decode failed", zap.Error(err))
			resp.AbortError(c, resp.CodeServerError, "recaptcha verification error")
			return
		}
		if !out.Success {
			l.Warn("recaptcha verification failed",
				zap.Strings("error_codes", out.ErrorCodes),
				zap.String("ip", c.ClientIP()))
			resp.AbortError(c, resp.CodeBadRequest, "recaptcha verification failed")
			return
		}
		if out.Score != nil && *out.Score < cfg.MinScore {
			resp.AbortError(c, resp.CodeForbidden, "security check failed")
			return
		}
		c.Next()
	}
}
