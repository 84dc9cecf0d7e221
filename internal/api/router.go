package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/yatube/config"
	_ "github.com/d60-Lab/yatube/docs"
	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/middleware"
	"github.com/d60-Lab/yatube/internal/service"
)

// Options carries what the router needs besides the handler.
type Options struct {
	Config    *config.Config
	Auth      service.AuthService
	Limiter   *middleware.IPRateLimiter
	MediaRoot string // served at /media when set
}

// NewRouter 注册所有路由
func NewRouter(h *handler.Handler, opts Options) *gin.Engine {
	cfg := opts.Config
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})),
	)
	if len(cfg.CORS.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(
		middleware.Identity(opts.Auth, cfg.Auth.CookieName),
		middleware.AccessLog(),
		middleware.RateLimit(opts.Limiter),
	)

	r.NoRoute(h.NotFound)
	r.GET("/healthz", h.Healthz)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if opts.MediaRoot != "" {
		r.Static("/media", opts.MediaRoot)
	}

	login := middleware.LoginRequired(cfg.Auth.LoginURL)

	auth := r.Group("/auth")
	{
		auth.GET("/login/", h.LoginForm)
		auth.POST("/login/", h.Login)
		auth.GET("/signup/", h.SignupForm)
		auth.POST("/signup/", h.Signup)
		auth.GET("/logout/", h.Logout)
		auth.POST("/logout/", h.Logout)
	}

	about := r.Group("/about")
	{
		about.GET("/author/", h.AboutAuthor)
		about.GET("/tech/", h.AboutTech)
	}

	r.GET("/", h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/new/", login, h.NewPostForm)
	r.POST("/new/", login, h.CreatePost)
	r.GET("/follow/", login, h.FollowIndex)

	r.GET("/:username/", h.Profile)
	r.GET("/:username/follow/", login, h.Follow)
	r.POST("/:username/follow/", login, h.Follow)
	r.GET("/:username/unfollow/", login, h.Unfollow)
	r.POST("/:username/unfollow/", login, h.Unfollow)
	r.GET("/:username/followers/", h.ListFollowers)
	r.GET("/:username/following/", h.ListFollowing)

	r.GET("/:username/:post_id/", h.PostDetail)
	r.GET("/:username/:post_id/edit/", login, h.EditPostForm)
	r.POST("/:username/:post_id/edit/", login, h.UpdatePost)
	r.GET("/:username/:post_id/comment/", login, h.CommentRedirect)
	r.POST("/:username/:post_id/comment/", login, h.AddComment)

	return r
}
