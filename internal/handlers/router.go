package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkotelnikov/defect-tracking-api/internal/config"
	"github.com/vkotelnikov/defect-tracking-api/internal/middleware"
	"github.com/vkotelnikov/defect-tracking-api/internal/policy"
	"github.com/vkotelnikov/defect-tracking-api/internal/repository"
	"github.com/vkotelnikov/defect-tracking-api/internal/services"
)

// SetupRouter wires repositories, services and handlers onto a gin engine.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	defectRepo := repository.NewDefectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	defectService := services.NewDefectService(defectRepo, historyRepo)
	commentService := services.NewCommentService(commentRepo, defectRepo)
	attachmentService := services.NewAttachmentService(attachmentRepo, defectRepo)
	statisticsService := services.NewStatisticsService(defectRepo, userRepo, projectRepo)

	authHandler := NewAuthHandler(authService, cfg.JWTSecret, cfg.TokenTTL)
	userHandler := NewUserHandler(userService)
	projectHandler := NewProjectHandler(projectService)
	defectHandler := NewDefectHandler(defectService)
	commentHandler := NewCommentHandler(commentService)
	attachmentHandler := NewAttachmentHandler(attachmentService)
	referenceHandler := NewReferenceHandler(referenceRepo)
	statisticsHandler := NewStatisticsHandler(statisticsService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	if cfg.CORSOrigin != "" {
		router.Use(middleware.CORS(cfg.CORSOrigin))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/register",
			middleware.RequireAction(policy.ActionManageUsers), authHandler.Register)

		users := protected.Group("/users")
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id",
				middleware.RequireAction(policy.ActionManageUsers), userHandler.Delete)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.POST("",
				middleware.RequireAction(policy.ActionManageProjects), projectHandler.Create)
			projects.PUT("/:id",
				middleware.RequireAction(policy.ActionManageProjects), projectHandler.Update)
			projects.DELETE("/:id",
				middleware.RequireAction(policy.ActionManageProjects), projectHandler.Delete)
		}

		defects := protected.Group("/defects")
		{
			defects.GET("", defectHandler.List)
			defects.GET("/:id", defectHandler.Get)
			defects.POST("",
				middleware.RequireAction(policy.ActionManageDefects), defectHandler.Create)
			defects.PUT("/:id",
				middleware.RequireAction(policy.ActionManageDefects), defectHandler.Update)
			defects.DELETE("/:id",
				middleware.RequireAction(policy.ActionManageDefects), defectHandler.Delete)
			defects.GET("/:id/history", defectHandler.History)

			defects.GET("/:id/comments", commentHandler.ListForDefect)
			defects.POST("/:id/comments", commentHandler.Create)
			defects.GET("/:id/attachments", attachmentHandler.ListForDefect)
			defects.POST("/:id/attachments", attachmentHandler.Create)
		}

		comments := protected.Group("/comments")
		{
			comments.PUT("/:id", commentHandler.Update)
			comments.DELETE("/:id", commentHandler.Delete)
		}

		attachments := protected.Group("/attachments")
		{
			attachments.PUT("/:id", attachmentHandler.Update)
			attachments.DELETE("/:id", attachmentHandler.Delete)
		}

		protected.GET("/roles", referenceHandler.Roles)
		protected.GET("/project-statuses", referenceHandler.ProjectStatuses)
		protected.GET("/defect-statuses", referenceHandler.DefectStatuses)

		statistics := protected.Group("/statistics")
		{
			statistics.GET("/overview", statisticsHandler.Overview)
			statistics.GET("/defects-by-status", statisticsHandler.ByStatus)
			statistics.GET("/defects-by-project", statisticsHandler.ByProject)
			statistics.GET("/defects-by-user", statisticsHandler.ByUser)
			statistics.GET("/defects-timeline", statisticsHandler.Timeline)
			statistics.GET("/priority-metrics", statisticsHandler.Priorities)
			statistics.GET("/project/:id/details", statisticsHandler.ProjectDetails)
		}
	}

	return router
}
