package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/synqtech/synq-site/internal/config"
	"github.com/synqtech/synq-site/internal/database"
	"github.com/synqtech/synq-site/internal/handlers"
	"github.com/synqtech/synq-site/internal/middleware"
	"github.com/synqtech/synq-site/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the router is built from.
type Deps struct {
	DB       *gorm.DB
	Migrator handlers.MigrationRunner
	Logger   *zap.Logger
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		connected := database.Ping(c.Request.Context(), deps.DB) == nil
		status := http.StatusOK
		if !connected {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":       http.StatusText(status),
			"db_connected": connected,
		})
	})

	router.Static("/uploads", cfg.UploadDir)

	// Initialize services
	authService := services.NewAuthService(cfg, deps.DB)
	teamService := services.NewTeamService(deps.DB)
	projectService := services.NewProjectService(deps.DB)
	commentService := services.NewCommentService(deps.DB)
	storageService := services.NewStorageService(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	teamHandler := handlers.NewTeamHandler(teamService, storageService, logger)
	projectHandler := handlers.NewProjectHandler(projectService, storageService, logger)
	commentHandler := handlers.NewCommentHandler(commentService, logger)
	adminHandler := handlers.NewAdminHandler(deps.DB, storageService, deps.Migrator, logger)

	requireAdmin := []gin.HandlerFunc{middleware.AuthMiddleware(authService), middleware.RequireAdmin()}

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", append(requireAdmin, authHandler.GetCurrentUser)...)
		}

		api.GET("/team", teamHandler.ListTeam)

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
		}

		comments := api.Group("/comments")
		{
			comments.GET("", commentHandler.ListComments)
			comments.POST("", commentHandler.SubmitComment)
			comments.POST("/:id/like", commentHandler.LikeComment)
		}

		admin := api.Group("/admin")
		admin.Use(requireAdmin...)
		{
			admin.GET("/stats", adminHandler.GetDashboardStats)
			admin.POST("/migrate", adminHandler.RunMigration)
			admin.POST("/uploads/:folder", adminHandler.UploadImage)

			admin.POST("/team", teamHandler.CreateTeamMember)
			admin.PUT("/team/:id", teamHandler.UpdateTeamMember)
			admin.DELETE("/team/:id", teamHandler.DeleteTeamMember)

			admin.POST("/projects", projectHandler.CreateProject)
			admin.PUT("/projects/:id", projectHandler.UpdateProject)
			admin.DELETE("/projects/:id", projectHandler.DeleteProject)

			admin.GET("/comments", commentHandler.ListAllComments)
			admin.PATCH("/comments/:id/approval", commentHandler.SetApproval)
			admin.DELETE("/comments/:id", commentHandler.DeleteComment)
		}
	}

	// Serve the frontend: real files from WebDir, index.html for client routes
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		if file, ok := webFile(cfg.WebDir, c.Request.URL.Path); ok {
			c.File(file)
			return
		}

		index := filepath.Join(cfg.WebDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.File(index)
	})

	return router
}

// webFile resolves a request path to a regular file inside webDir.
func webFile(webDir, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	file := filepath.Join(webDir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

// SeedAdminUser creates the configured admin account if it does not exist.
func SeedAdminUser(cfg *config.Config, authService *services.AuthService) (bool, error) {
	return authService.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword)
}
