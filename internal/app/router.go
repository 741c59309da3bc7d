package app

import (
	"fyp_portal_backend/docs"
	"fyp_portal_backend/internal/config"
	"fyp_portal_backend/internal/middleware"
	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerReviewerRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.GET("/milestones", c.milestone.List)

	// Group formation is a student-to-student handshake.
	student := rg.Group("/")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/group-request", c.group.SendRequest)
		student.GET("/group-requests", c.group.ListIncoming)
		student.POST("/group-request/:id/approve", c.group.Approve)
		student.POST("/group-request/:id/reject", c.group.Reject)

		student.GET("/supervisors", c.user.ListSupervisors)
		student.POST("/supervisor-request", c.supervision.Submit)

		student.POST("/documents", c.document.Upload)
	}

	rg.GET("/documents", c.document.List)
	rg.GET("/evaluations/:studentId", c.evaluation.Get)
}

func (a *App) registerReviewerRoutes(rg *gin.RouterGroup, c *controllers) {
	supervisor := rg.Group("/")
	supervisor.Use(middleware.RoleMiddleware(model.Supervisor))
	{
		supervisor.GET("/supervisor-requests", c.supervision.ListIncoming)
		supervisor.POST("/requests/:id/approve", c.supervision.Approve)
		supervisor.POST("/requests/:id/reject", c.supervision.Reject)
	}

	reviewer := rg.Group("/")
	reviewer.Use(middleware.RoleMiddleware(model.Supervisor, model.Internal, model.External))
	{
		reviewer.PUT("/documents/:id/status", c.document.SetStatus)
		reviewer.POST("/documents/:id/feedback", c.document.AttachFeedback)
		reviewer.POST("/evaluate", c.evaluation.Evaluate)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:id", c.user.GetUser)

		admin.POST("/milestones", c.milestone.Create)
		admin.PUT("/milestones/:id", c.milestone.Update)
		admin.DELETE("/milestones/:id", c.milestone.Delete)

		admin.POST("/supervisors/:id/resync", c.supervision.Resync)
	}
}
