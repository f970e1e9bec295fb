package router

import (
	"net/http"
	"strings"
	"time"

	"character-chat-demo/backend/internal/api"
	"character-chat-demo/backend/pkg/di"
	"character-chat-demo/backend/pkg/errors"
	"character-chat-demo/backend/pkg/logger"
	"character-chat-demo/backend/pkg/metrics"
	"character-chat-demo/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Logger middleware first to capture all requests
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(metrics.Middleware())
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	rateLimiter := middleware.NewRateLimiter(container.Logger, middleware.RateLimiterOptions{
		Limit:          rate.Limit(cfg.Security.RateLimit),
		Burst:          cfg.Security.RateLimitBurst,
		ExpiryDuration: time.Hour,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
	engine.Use(rateLimiter.Middleware())
	engine.Use(corsMiddleware(cfg.Security.AllowedOrigins))

	if cfg.Web.TemplateGlob != "" {
		engine.LoadHTMLGlob(cfg.Web.TemplateGlob)
	}

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	c := r.Container

	// Interface-typed storage dependencies, left nil when unconfigured
	var imageStore api.ImageStore
	var diagStore api.DiagStore
	if c.Storage != nil {
		imageStore = c.Storage
		diagStore = c.Storage
	}

	pages := api.NewPageController(c.Catalog, c.Avatars, c.Chat)
	chat := api.NewChatController(c.Chat)
	images := api.NewImageController(imageStore, c.Config.Storage.PresignExpiry)
	diagnostics := api.NewDiagnosticsController(c.Config, diagStore)

	r.Engine.GET("/", pages.Index)
	r.Engine.POST("/chat", chat.Chat)
	r.Engine.POST("/get_character_image", images.GetCharacterImage)
	r.Engine.GET("/health", api.Health)
	r.Engine.GET("/metrics", metrics.Handler())

	// Storage diagnostics, operational use only
	r.Engine.GET("/check_s3", diagnostics.CheckConnectivity)
	r.Engine.GET("/check_s3_config", diagnostics.CheckConfig)
	r.Engine.GET("/test_s3", diagnostics.TestStorage)
}

// corsMiddleware handles cross-origin requests
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 1 && allowedOrigins[0] == "*"

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					c.Header("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
