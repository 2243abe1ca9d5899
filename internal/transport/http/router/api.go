package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"projectdesk/internal/core/auth"
	"projectdesk/internal/core/config"
	"projectdesk/internal/domain"
	"projectdesk/internal/transport/http/handler"
	"projectdesk/internal/transport/http/middleware"
	resp "projectdesk/internal/transport/http/response"
)

type APIDeps struct {
	Cfg       *config.Config
	Log       *zap.Logger
	RDB       *redis.Client // 可为 nil
	Tokens    *auth.Issuer
	Users     domain.UserRepository
	UserH     *handler.UserHandler
	CustomerH *handler.CustomerHandler
	ProjectH  *handler.ProjectHandler
}

// NewAPIEngine 面向终端用户的 HTTP 入口
func NewAPIEngine(d APIDeps) *gin.Engine {
	if d.Cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()

	corsCfg := cors.DefaultConfig()
	if len(d.Cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = d.Cfg.CORS.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	// cookie 会话要求带凭据跨域
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Recaptcha-Token")

	e.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Log),
		middleware.MaxBodyBytes(int64(d.Cfg.Upload.MaxSizeMB)<<20),
		cors.New(corsCfg),
		middleware.RateLimitPerIP(50, 100),
		middleware.ConcurrencyLimit(512),
		middleware.Timeout(time.Duration(d.Cfg.App.HTTP.WriteTimeoutSec)*time.Second),
		middleware.Metrics(),
		middleware.AccessLog(d.Log),
	)

	e.GET("/health", func(c *gin.Context) { resp.OK(c, gin.H{"status": "ok"}) })
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))

	attempt := middleware.AttemptLimit(d.RDB,
		time.Duration(d.Cfg.RateLimit.LoginWindowMin)*time.Minute,
		d.Cfg.RateLimit.LoginMax)
	captcha := middleware.Recaptcha(d.Cfg.Recaptcha, d.Log)

	v1 := e.Group("/api/v1")
	{
		users := v1.Group("/users")
		users.POST("/register", attempt, captcha, d.UserH.Register)
		users.POST("/login", attempt, captcha, d.UserH.Login)
		users.POST("/refresh-token", d.UserH.RefreshToken)

		authed := users.Group("", middleware.RequireAuth(d.Tokens, d.Users, ""))
		authed.POST("/logout", d.UserH.Logout)
		authed.GET("/me", d.UserH.Me)

		customers := v1.Group("/customers", middleware.RequireAuth(d.Tokens, d.Users, ""))
		customers.POST("", d.CustomerH.Create)
		customers.GET("", d.CustomerH.List)
		customers.GET("/:id", d.CustomerH.Get)
		customers.PUT("/:id", d.CustomerH.Update)
		customers.DELETE("/:id", d.CustomerH.Delete)

		projects := v1.Group("/projects", middleware.RequireAuth(d.Tokens, d.Users, ""))
		projects.POST("", d.ProjectH.Create)
		projects.GET("", d.ProjectH.List)
		projects.GET("/personal", d.ProjectH.ListPersonal)
		projects.GET("/by-customer/:customerId", d.ProjectH.ListByCustomer)
		projects.GET("/:id", d.ProjectH.Get)
		projects.PUT("/:id", d.ProjectH.Update)
		projects.DELETE("/:id", d.ProjectH.Delete)
	}

	return e
}
