package main

import (
	"MoodMapGo/classifier"
	"MoodMapGo/config"
	"MoodMapGo/middleware"
	"MoodMapGo/routes"
	"MoodMapGo/services"
	"MoodMapGo/utils"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	// 初始化日志
	if err := config.InitLogger(conf.LogDir, conf.Environment != "production"); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	defer config.Logger.Sync()

	// 初始化数据库
	db, err := config.InitDB(conf)
	if err != nil {
		config.Logger.Fatalw("无法初始化数据库", "error", err)
	}

	// 加载情绪分类模型
	model, err := classifier.Load(conf.ModelPath)
	if err != nil {
		config.Logger.Fatalw("无法加载情绪分类模型", "error", err, "path", conf.ModelPath)
	}
	config.Logger.Infow("情绪分类模型已加载", "path", conf.ModelPath, "labels", model.Labels())

	// 初始化Redis，未配置时不启用描述缓存
	var cache services.NarrativeCache
	redisClient, err := config.InitRedis(context.Background(), conf)
	if err != nil {
		config.Logger.Fatalw("无法初始化Redis", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = services.NewRedisNarrativeCache(redisClient, conf.NarrativeCacheTTL())
	}

	// 初始化LLM客户端，未配置密钥时描述与建议直接降级
	var generator services.NarrativeGenerator
	if conf.LLMAPIKey != "" {
		llmClient, err := services.NewLLMClient(conf.LLMAPIKey, conf.LLMAPIEndpoint, conf.LLMModel, conf.LLMRatePerSecond)
		if err != nil {
			config.Logger.Fatalw("无法初始化LLM客户端", "error", err)
		}
		generator = llmClient
	} else {
		config.Logger.Warnw("未配置 LLM_API_KEY，情绪报告将不包含描述和建议")
	}

	jwtManager, err := utils.NewJWTManager(conf.JWTSecret, conf.JWTExpiry())
	if err != nil {
		config.Logger.Fatalw("无法初始化JWT", "error", err)
	}

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 设置中间件
	middleware.SetupMiddleware(r)

	// 注册路由
	routes.RegisterRoutes(r, routes.Dependencies{
		DB:                db,
		JWT:               jwtManager,
		Predictions:       services.NewPredictionService(db, model),
		Aggregations:      services.NewAggregationService(db),
		Reports:           services.NewReportService(generator, cache, conf.LLMTimeout()),
		InternalAuthToken: conf.InternalAuthToken,
	})

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	// 在goroutine中启动服务器
	go func() {
		config.Logger.Infow("启动服务器", "port", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			config.Logger.Fatalw("服务器启动失败", "error", err)
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		config.Logger.Errorw("服务器关闭失败", "error", err)
		return
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	config.Logger.Info("服务器已关闭")
}
