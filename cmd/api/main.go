package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"projectdesk/internal/core/auth"
	"projectdesk/internal/core/cache"
	"projectdesk/internal/core/config"
	"projectdesk/internal/core/database"
	"projectdesk/internal/core/logger"
	"projectdesk/internal/core/server"
	"projectdesk/internal/domain"
	"projectdesk/internal/media"
	"projectdesk/internal/repo"
	"projectdesk/internal/service"
	"projectdesk/internal/transport/http/handler"
	"projectdesk/internal/transport/http/router"
)

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.Rotate.Enable {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Enable:     true,
			Filename:   cfg.Log.Rotate.Filename,
			MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
			MaxBackups: cfg.Log.Rotate.MaxBackups,
			MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
			Compress:   cfg.Log.Rotate.Compress,
		})
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load("")

	log, cleanup := newLogger(cfg)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Customer{}, &domain.Project{}); err != nil {
			log.Fatal("auto migrate failed", zap.Error(err))
		}
	}

	// redis 可选，没配就关掉限流共享与列表缓存
	var rdb *redis.Client
	var listCache *cache.Cache
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, continuing without it", zap.Error(err))
			rdb = nil
		} else {
			listCache = cache.New(rdb)
		}
	}

	uploader, err := media.NewS3Uploader(cfg.Media)
	if err != nil {
		log.Fatal("init media uploader failed", zap.Error(err))
	}

	tokens := &auth.Issuer{
		AccessSecret:  []byte(cfg.JWT.AccessSecret),
		RefreshSecret: []byte(cfg.JWT.RefreshSecret),
		Issuer:        cfg.JWT.Issuer,
		AccessTTL:     time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL:    time.Duration(cfg.JWT.RefreshTokenTTLDay) * 24 * time.Hour,
	}

	userRepo := repo.NewUserRepo(db)
	customerRepo := repo.NewCustomerRepo(db)
	projectRepo := repo.NewProjectRepo(db)

	authSvc := service.NewAuthService(log, userRepo, tokens, uploader)
	customerSvc := service.NewCustomerService(log, customerRepo, projectRepo, uploader, listCache)
	projectSvc := service.NewProjectService(log, projectRepo, customerRepo, uploader)

	cookieSecure := cfg.App.Env == "prod"
	engine := router.NewAPIEngine(router.APIDeps{
		Cfg:       cfg,
		Log:       log,
		RDB:       rdb,
		Tokens:    tokens,
		Users:     userRepo,
		UserH:     handler.NewUserHandler(log, authSvc, tokens, cfg.Upload.StagingDir, cookieSecure),
		CustomerH: handler.NewCustomerHandler(log, customerSvc, cfg.Upload.StagingDir),
		ProjectH:  handler.NewProjectHandler(log, projectSvc, cfg.Upload.StagingDir),
	})

	srv := server.BuildServer(
		server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port),
		engine,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	go func() {
		log.Info("api server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info("api server stopped")
}
