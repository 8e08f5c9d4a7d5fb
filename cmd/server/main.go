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

	"github.com/d60-Lab/chirper/config"
	"github.com/d60-Lab/chirper/internal/api/handler"
	"github.com/d60-Lab/chirper/internal/api/router"
	"github.com/d60-Lab/chirper/internal/cache"
	"github.com/d60-Lab/chirper/internal/repository"
	"github.com/d60-Lab/chirper/internal/service"
	"github.com/d60-Lab/chirper/pkg/cursor"
	"github.com/d60-Lab/chirper/pkg/database"
	"github.com/d60-Lab/chirper/pkg/logger"
	"github.com/d60-Lab/chirper/pkg/token"
	"github.com/d60-Lab/chirper/pkg/tracing"
)

// 仅用于本地开发，release 模式下 Validate 要求显式配置
const devSecret = "chirper-dev-secret"

// @title Chirper API
// @version 1.0
// @description 时间线、点赞与关注接口
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.JWT.Secret == "" {
		logger.Warn("jwt.secret not set, using development secret")
		cfg.JWT.Secret = devSecret
	}
	if cfg.Feed.CursorSecret == "" {
		logger.Warn("feed.cursor_secret not set, using development secret")
		cfg.Feed.CursorSecret = devSecret
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	var profileCache cache.ProfileCache = cache.Nop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// 缓存不可用只影响性能
			logger.Warn("redis unavailable, profile cache disabled", zap.Error(err))
		} else {
			profileCache = cache.NewRedisProfileCache(rdb, cfg.Redis.TTL)
		}
		cancel()
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo, token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expire))
	h := handler.NewHandler(handler.Services{
		Auth:     authService,
		Feed:     service.NewFeedService(postRepo),
		Post:     service.NewPostService(postRepo, profileCache),
		Like:     service.NewLikeService(likeRepo, postRepo, userRepo),
		Comment:  service.NewCommentService(commentRepo, postRepo, userRepo),
		Relation: service.NewRelationshipService(followRepo, userRepo, profileCache),
		Profile:  service.NewProfileService(userRepo, postRepo, followRepo, profileCache),
	}, cursor.NewCodec(cfg.Feed.CursorSecret), cfg.Feed)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(cfg, h, authService),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
}
