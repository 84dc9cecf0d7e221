// @title yatube API
// @version 1.0
// @description Posts, groups, comments and follows.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/api"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/middleware"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			logger.Error("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	var feedCache cache.FeedCache = cache.NopCache{}
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, feed cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			feedCache = cache.NewRedisCache(client, cfg.Cache.Namespace, cfg.Cache.FeedTTL)
		}
	}

	var (
		media     storage.MediaStorage
		mediaRoot string
	)
	switch cfg.Media.Backend {
	case "s3":
		s3, err := storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket)
		if err != nil {
			logger.Fatal("s3 init failed", zap.Error(err))
		}
		media = s3
	default:
		local, err := storage.NewLocalStorage(cfg.Media.Root, cfg.Media.URL)
		if err != nil {
			logger.Fatal("media init failed", zap.Error(err))
		}
		media, mediaRoot = local, local.Root()
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)

	feedSvc := service.NewFeedService(postRepo, groupRepo, userRepo, feedCache, cfg.Feed.PageSize)
	postSvc := service.NewPostService(postRepo, userRepo, groupRepo, feedSvc, media, cfg.Media.MaxSize)
	commentSvc := service.NewCommentService(postSvc, postRepo, repository.NewCommentRepository(db))
	relSvc := service.NewRelationshipService(repository.NewFollowRepository(db), userRepo, feedSvc, cfg.Feed.PageSize)
	groupSvc := service.NewGroupService(groupRepo, feedSvc)
	authSvc := service.NewAuthService(userRepo, service.AuthConfig{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.Issuer,
		TokenTTL: cfg.Auth.TokenTTL,
	})

	h := handler.NewHandler(feedSvc, postSvc, commentSvc, relSvc, groupSvc, authSvc, media, handler.SessionConfig{
		CookieName: cfg.Auth.CookieName,
		Secure:     cfg.Auth.CookieSecure,
		TTL:        cfg.Auth.TokenTTL,
		LoginURL:   cfg.Auth.LoginURL,
	})

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	router := api.NewRouter(h, api.Options{Config: cfg, Auth: authSvc, Limiter: limiter, MediaRoot: mediaRoot})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", zap.Error(err))
	}
}
