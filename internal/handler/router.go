package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sidvishnoi/respec-github-apis/internal/config"
	"github.com/sidvishnoi/respec-github-apis/internal/handler/middleware"
	jwtpkg "github.com/sidvishnoi/respec-github-apis/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	githubHandler *GitHubHandler,
	adminHandler *AdminHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	gh := r.Group("/api/v1/gh")
	{
		gh.GET("/commits/:owner/:repo", githubHandler.Commits)
		gh.GET("/issues/:owner/:repo", githubHandler.Issues)
		gh.GET("/issues/:owner/:repo/:number/commenters", githubHandler.Commenters)
		gh.GET("/contributors/:owner/:repo", githubHandler.Contributors)
		gh.GET("/users", githubHandler.Users)
	}

	// Admin routes (JWT + subject check)
	if adminHandler != nil {
		admin := r.Group("/api/v1/admin")
		admin.Use(middleware.JWTAuth(jwtManager))
		admin.Use(middleware.AdminAuth(cfg.Admin.Subjects))
		{
			admin.GET("/cache/stats", adminHandler.CacheStats)
			admin.DELETE("/cache/stats", adminHandler.ClearCacheStats)
			admin.PUT("/cache/:name/ttl", adminHandler.SetCacheTTL)
			admin.POST("/cache/dump", adminHandler.DumpCaches)
		}
	}

	return r
}
