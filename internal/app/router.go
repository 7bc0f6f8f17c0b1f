package app

import (
	"learnpulse_backend/docs"
	"learnpulse_backend/internal/config"
	"learnpulse_backend/internal/middleware"
	"learnpulse_backend/internal/model"
	"learnpulse_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 直接提交记录的分析接口
		authGroup.POST("/profile", c.learner.AnalyzeProfile)
		authGroup.POST("/predict", c.learner.Predict)

		a.registerLearnerRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	learner := rg.Group("/learners/:userId")
	learner.Use(middleware.LearnerAccessMiddleware("userId"))
	learner.GET("/profile", c.learner.GetProfile)
	learner.GET("/prediction", c.learner.GetPrediction)
	learner.GET("/predictions", c.learner.ListPredictions)
	learner.GET("/predictions/latest", c.learner.LatestPrediction)
	learner.GET("/narrative", c.learner.GetNarrative)
	learner.POST("/records", c.learner.RecordSession)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/learners/batch")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	teacher.POST("/profile", c.learner.BatchProfiles)
}
