package app

import (
	"edu_platform_backend/internal/config"
	"edu_platform_backend/internal/middleware"
	"edu_platform_backend/internal/model"
	"edu_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Everything below requires a valid bearer credential.
	authGroup := router.Group("/api")
	authGroup.Use(
		middleware.AuthMiddleware(cfg, repos.user),
		middleware.ActivityMiddleware(repos.user),
	)
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.GET("/dashboard/:role", c.dashboard.GetDashboard)
		authGroup.GET("/performance", c.performance.GetPerformance)

		authGroup.GET("/courses", c.course.ListCourses)
		authGroup.GET("/courses/:id", c.course.GetCourse)

		// Student-only mutations
		student := authGroup.Group("/")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.POST("/courses/:id/enroll", c.course.Enroll)
			student.POST("/courses/:id/complete", c.course.Complete)
			student.POST("/performance/quiz", c.performance.RecordQuizScore)
			student.POST("/performance/learning-time", c.performance.RecordLearningTime)
		}

		// Teacher-only mutations
		teacher := authGroup.Group("/")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/courses", c.course.CreateCourse)
		}
	}
}
