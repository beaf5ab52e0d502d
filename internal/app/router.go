package app

import (
	"surveyhub_backend/docs"
	"surveyhub_backend/internal/middleware"
	"surveyhub_backend/internal/model"
	"surveyhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		// 填答端
		public.GET("/public/surveys/:slug", c.survey.GetPublic)
		public.GET("/public/surveys/:slug/questions", c.survey.GetPublicQuestions)
		public.POST("/public/surveys/:slug/responses", c.response.Submit)
		public.POST("/public/invitations/:code/access", c.invitation.CheckAccess)
	}

	// 管理端，仅限管理员
	admin := router.Group("/api")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/auth/profile", c.auth.Profile)

		admin.POST("/surveys", c.survey.Create)
		admin.GET("/surveys", c.survey.List)
		admin.GET("/surveys/:id", c.survey.Get)
		admin.PUT("/surveys/:id", c.survey.Update)
		admin.PATCH("/surveys/:id/status", c.survey.UpdateStatus)
		admin.DELETE("/surveys/:id", c.survey.Delete)
		admin.GET("/surveys/:id/responses", c.response.ListBySurvey)

		admin.POST("/question-banks", c.questionBank.Create)
		admin.GET("/question-banks", c.questionBank.List)
		admin.GET("/question-banks/:id", c.questionBank.Get)
		admin.PUT("/question-banks/:id", c.questionBank.Update)
		admin.DELETE("/question-banks/:id", c.questionBank.Delete)
		admin.GET("/question-banks/:id/questions", c.questionBank.ListQuestions)
		admin.POST("/question-banks/:id/questions", c.questionBank.AddQuestion)
		admin.PUT("/question-banks/:id/questions/:questionId", c.questionBank.UpdateQuestion)
		admin.DELETE("/question-banks/:id/questions/:questionId", c.questionBank.DeleteQuestion)
		admin.POST("/question-banks/:id/random-questions", c.questionBank.RandomQuestions)
		admin.POST("/question-banks/:id/import", c.questionBank.Import)

		admin.POST("/invitations", c.invitation.Create)
		admin.GET("/invitations", c.invitation.List)
		admin.GET("/invitations/:id", c.invitation.Get)
		admin.PUT("/invitations/:id", c.invitation.Update)
		admin.DELETE("/invitations/:id", c.invitation.Delete)
		admin.GET("/invitations/:id/statistics", c.invitation.Statistics)
		admin.GET("/invitations/:id/accesses", c.invitation.ListAccesses)
		admin.GET("/invitations/:id/url", c.invitation.URL)

		admin.GET("/responses/:id", c.response.Get)
		admin.DELETE("/responses/:id", c.response.Delete)
	}
}
