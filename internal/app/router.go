package app

import (
	"formation_quiz_backend/docs"
	"formation_quiz_backend/internal/config"
	"formation_quiz_backend/internal/middleware"
	"formation_quiz_backend/internal/model"
	"formation_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/login", c.auth.Login)
	}

	// Authenticated routes shared by both roles
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/me", c.auth.Me)
		authGroup.POST("/auth/logout", c.auth.Logout)
		authGroup.PUT("/auth/profile", c.auth.UpdateProfile)
		authGroup.PUT("/auth/password", c.auth.ChangePassword)
	}

	// Trainee flow
	trainee := router.Group("/api/trainee")
	trainee.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Trainee))
	{
		trainee.GET("/questionnaires", c.parcours.Available)

		trainee.POST("/parcours", c.parcours.Start)
		trainee.GET("/parcours", c.parcours.ListMine)
		trainee.GET("/parcours/:id", c.parcours.Detail)
		trainee.GET("/parcours/:id/question", c.parcours.CurrentQuestion)
		trainee.POST("/parcours/:id/answers", c.parcours.SubmitAnswer)
		trainee.POST("/parcours/:id/finish", c.parcours.Finish)
		trainee.POST("/parcours/:id/abandon", c.parcours.Abandon)
		trainee.GET("/parcours/:id/results", c.parcours.Results)
		trainee.GET("/parcours/:id/results/detailed", c.parcours.DetailedResults)
		trainee.GET("/recommendations", c.parcours.MyRecommendations)
	}

	// Admin surface
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/trainees", c.trainee.Create)
		admin.GET("/trainees", c.trainee.List)
		admin.GET("/trainees/:id", c.trainee.Get)
		admin.PUT("/trainees/:id", c.trainee.Update)
		admin.DELETE("/trainees/:id", c.trainee.Deactivate)

		admin.POST("/questionnaires", c.questionnaire.Create)
		admin.GET("/questionnaires", c.questionnaire.List)
		admin.GET("/questionnaires/:id", c.questionnaire.Get)
		admin.PUT("/questionnaires/:id", c.questionnaire.Update)
		admin.DELETE("/questionnaires/:id", c.questionnaire.Delete)
		admin.POST("/questionnaires/:id/questions", c.questionnaire.AddQuestion)
		admin.GET("/questions/:id", c.questionnaire.GetQuestion)
		admin.PUT("/questions/:id", c.questionnaire.UpdateQuestion)
		admin.DELETE("/questions/:id", c.questionnaire.DeleteQuestion)

		admin.GET("/reports/global", c.report.GlobalSynthesis)
		admin.GET("/reports/trainees/:id", c.report.TraineeSynthesis)
		admin.GET("/reports/trainees/:id/export", c.report.ExportTrainee)
		admin.GET("/reports/questionnaires/:id", c.report.QuestionnaireReport)
		admin.GET("/reports/export", c.report.ExportAll)

		admin.POST("/maintenance/recompute-stats", c.report.Recompute)
	}
}
