package routes

import (
	"MoodMapGo/controllers"
	"MoodMapGo/metrics"
	"MoodMapGo/middleware"
	"MoodMapGo/services"
	"MoodMapGo/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies 路由依赖的服务
type Dependencies struct {
	DB                *gorm.DB
	JWT               *utils.JWTManager
	Predictions       *services.PredictionService
	Aggregations      *services.AggregationService
	Reports           *services.ReportService
	InternalAuthToken string
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	authController := controllers.NewAuthController(deps.DB, deps.JWT)
	diaryController := controllers.NewDiaryController(deps.DB, deps.Predictions)
	emotionController := controllers.NewEmotionController(deps.DB, deps.Aggregations, deps.Reports)
	userController := controllers.NewUserController(deps.DB)

	authRequired := middleware.AuthMiddleware(deps.JWT)

	// 公开路由（无需认证）
	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)

	// 空文本在认证之前拒绝
	r.POST("/predict_details", diaryController.ValidateText, authRequired, diaryController.PredictDetails)

	// 需要认证的路由
	private := r.Group("/")
	private.Use(authRequired)
	{
		private.GET("/diary-reports", diaryController.GetDiaryReports)
		private.POST("/emotion-reports", emotionController.EmotionReports)
		private.GET("/user", userController.GetUser)
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(deps.InternalAuthToken))
	{
		internal.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
