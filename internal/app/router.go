package app

import (
	"aula_virtual_backend/docs"
	"aula_virtual_backend/internal/config"
	"aula_virtual_backend/internal/middleware"
	"aula_virtual_backend/internal/model"
	"aula_virtual_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public: health and anonymous certificate verification. The verify code
	// is the only lookup key exposed without authentication.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/public/certificates/:code", c.certificate.GetByVerifyCode)
	}

	// Authenticated: submissions and owner/admin certificate access.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.POST("/quizzes/:quizId/submit", c.quiz.Submit)
		authGroup.GET("/certificates/:attemptId", c.certificate.GetByAttempt)
		authGroup.GET("/my/attempts", c.certificate.MyAttempts)
	}

	// Admin: issuance ledger and presentation settings.
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/certificates", c.certificate.ListIssued)
		admin.GET("/certificate-settings", c.settings.Get)
		admin.PUT("/certificate-settings", c.settings.Update)
		admin.POST("/certificate-assets", c.settings.UploadAsset)
	}
}
