package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/chirper/config"
	_ "github.com/d60-Lab/chirper/docs"
	"github.com/d60-Lab/chirper/internal/api/handler"
	"github.com/d60-Lab/chirper/internal/api/middleware"
	"github.com/d60-Lab/chirper/pkg/response"
)

// Setup 组装中间件与路由
func Setup(cfg *config.Config, h *handler.Handler, auth middleware.Authenticator) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	handler.RegisterValidators()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Sentry(),
		gzip.Gzip(gzip.DefaultCompression),
	)
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}
	api.Use(middleware.OptionalViewer(auth))
	authed := middleware.RequireViewer()

	{
		a := api.Group("/auth")
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
	}

	api.GET("/feed", h.GetFeed)

	users := api.Group("/users")
	{
		users.GET("/:id", h.GetProfile)
		users.GET("/:id/posts", h.ListUserPosts)
		users.GET("/:id/likes", h.ListUserLikes)
		users.GET("/:id/replies", h.ListUserReplies)
		users.GET("/:id/following", h.ListFollowing)
		users.GET("/:id/followers", h.ListFollowers)
		users.POST("/:id/follow", authed, h.ToggleFollow)
	}

	posts := api.Group("/posts")
	{
		posts.POST("", authed, h.CreatePost)
		posts.GET("/:id", h.GetPost)
		posts.POST("/:id/like", authed, h.ToggleLike)
		posts.GET("/:id/comments", h.ListComments)
		posts.POST("/:id/comments", authed, h.AddComment)
	}

	return r
}
