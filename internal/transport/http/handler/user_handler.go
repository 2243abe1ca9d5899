package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projectdesk/internal/core/auth"
	"projectdesk/internal/service"
	"projectdesk/internal/transport/http/middleware"
	resp "projectdesk/internal/transport/http/response"
)

type UserHandler struct {
	log          *zap.Logger
	auth         *service.AuthService
	tokens       *auth.Issuer
	stagingDir   string
	cookieSecure bool
}

func NewUserHandler(log *zap.Logger, svc *service.AuthService, tokens *auth.Issuer, stagingDir string, cookieSecure bool) *UserHandler {
	return &UserHandler{log: log, auth: svc, tokens: tokens, stagingDir: stagingDir, cookieSecure: cookieSecure}
}

func (h *UserHandler) setAuthCookies(c *gin.Context, pair auth.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieAccessToken, pair.Access,
		int(h.tokens.AccessTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.SetCookie(middleware.CookieRefreshToken, pair.Refresh,
		int(h.tokens.RefreshTTL.Seconds()), "/", "", h.cookieSecure, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieAccessToken, "", -1, "/", "", h.cookieSecure, true)
	c.SetCookie(middleware.CookieRefreshToken, "", -1, "/", "", h.cookieSecure, true)
}

// Register POST /api/v1/users/register (multipart/form-data)
func (h *UserHandler) Register(c *gin.Context) {
	in := service.RegisterInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		FullName: c.PostForm("fullName"),
		Password: c.PostForm("password"),
	}

	// 文件先落本地暂存目录，无论成败都要清掉
	if fh, err := c.FormFile("avatar"); err == nil {
		path, serr := stageFile(c, fh, h.stagingDir)
		if serr != nil {
			fail(c, h.log, serr)
			return
		}
		in.AvatarPath = path
	}
	if fh, err := c.FormFile("coverImage"); err == nil {
		path, serr := stageFile(c, fh, h.stagingDir)
		if serr != nil {
			cleanupStaged(in.AvatarPath)
			fail(c, h.log, serr)
			return
		}
		in.CoverImagePath = path
	}
	defer cleanupStaged(in.AvatarPath, in.CoverImagePath)

	u, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	resp.Created(c, u.Sanitized())
}

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/v1/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, resp.CodeBadRequest, "invalid request body")
		return
	}

	// email 优先，两者都给时按 email 查
	ident := service.LoginIdentifier{Kind: service.IdentByUsername, Value: req.Username}
	if strings.TrimSpace(req.Email) != "" {
		ident = service.LoginIdentifier{Kind: service.IdentByEmail, Value: req.Email}
	}

	u, pair, err := h.auth.Login(c.Request.Context(), ident, req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.setAuthCookies(c, pair)
	resp.OK(c, gin.H{
		"user":         u.Sanitized(),
		"accessToken":  pair.Access,
		"refreshToken": pair.Refresh,
	})
}

// Logout POST /api/v1/users/logout（需登录）
func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserID)
	if err := h.auth.Logout(c.Request.Context(), uid); err != nil {
		fail(c, h.log, err)
		return
	}
	h.clearAuthCookies(c)
	resp.OKMsg(c, "logged out successfully")
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken POST /api/v1/users/refresh-token；cookie 优先，body 兜底
func (h *UserHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.CookieRefreshToken)
	if token == "" {
		var req refreshReq
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		resp.Error(c, resp.CodeUnauthorized, "refresh token missing")
		return
	}

	u, pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.setAuthCookies(c, pair)
	resp.OK(c, gin.H{
		"user":         u.Sanitized(),
		"accessToken":  pair.Access,
		"refreshToken": pair.Refresh,
	})
}

// Me GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		resp.Error(c, resp.CodeUnauthorized, "access token missing")
		return
	}
	resp.OK(c, u)
}
