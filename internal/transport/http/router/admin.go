package router

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projectdesk/internal/core/auth"
	"projectdesk/internal/core/config"
	"projectdesk/internal/domain"
	"projectdesk/internal/transport/http/handler"
	"projectdesk/internal/transport/http/middleware"
	resp "projectdesk/internal/transport/http/response"
)

type AdminDeps struct {
	Cfg    *config.Config
	Log    *zap.Logger
	Tokens *auth.Issuer
	Users  domain.UserRepository
	AdminH *handler.AdminHandler
}

// NewAdminEngine 管理面入口，独立端口，仅 admin 角色可用
func NewAdminEngine(d AdminDeps) *gin.Engine {
	if d.Cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(
		middleware.RequestID(),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
		middleware.RateLimit(20, 40),
	)

	e.GET("/health", func(c *gin.Context) { resp.OK(c, gin.H{"status": "ok"}) })

	v1 := e.Group("/admin/v1", middleware.RequireAuth(d.Tokens, d.Users, "admin"))
	{
		v1.GET("/users", d.AdminH.ListUsers)
		v1.POST("/users/:id/deactivate", d.AdminH.DeactivateUser)
		v1.POST("/users/:id/activate", d.AdminH.ActivateUser)
	}

	return e
}
