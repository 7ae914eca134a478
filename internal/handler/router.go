package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/auth"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/config"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/middleware"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// RouterDeps are the handlers and settings the HTTP surface is assembled from
type RouterDeps struct {
	Chat       *ChatHandler
	Properties *PropertyHandler
	Users      *UserHandler
	Auth       *AuthHandler
	JWT        *auth.JWTManager
	Server     config.ServerConfig
	RateLimit  config.RateLimitConfig
	Build      BuildInfo
	LLMEnabled bool
	Store      string
	Logger     *slog.Logger
}

// APIPrefixes are the path roots owned by the API; anything else may fall through to the web UI
var APIPrefixes = []string{"/chat", "/properties", "/user", "/auth", "/metrics", "/health", "/version"}

// IsAPIPath reports whether path belongs to the API
func IsAPIPath(path string) bool {
	for _, p := range APIPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// NewRouter assembles middleware and routes
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(d.Logger))
	router.Use(middleware.Metrics())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(d.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(d.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(d.Server.AllowedHeaders)
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(corsConfig.AllowOrigins) == 0 || (len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	started := time.Now()

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Agent Mira API is running 🚀"})
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"service":     "agent-mira",
			"version":     d.Build.Version,
			"llm_enabled": d.LLMEnabled,
			"store":       d.Store,
			"uptime":      time.Since(started).Round(time.Second).String(),
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    d.Build.Version,
			"build_time": d.Build.BuildTime,
			"git_commit": d.Build.GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	chat := router.Group("/chat")
	chat.Use(middleware.RateLimit(d.RateLimit))
	{
		chat.POST("/message", d.Chat.Message)
		chat.POST("/extract", d.Chat.Extract)
	}

	properties := router.Group("/properties")
	{
		properties.GET("", d.Properties.List)
		properties.GET("/all", d.Properties.All)
		properties.GET("/:id", d.Properties.Get)
	}

	user := router.Group("/user")
	{
		user.POST("/save", d.Users.Save)
		user.GET("/saved/:user_id", d.Users.Saved)
		user.DELETE("/saved/:user_id/:property_id", d.Users.Remove)
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.Auth.Login)
		authGroup.GET("/me", middleware.JWT(d.JWT), d.Auth.Me)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})

	return router
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
