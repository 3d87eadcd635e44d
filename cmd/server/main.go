package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apmRepo "healthcare_booking/internal/domain/appointment/repository"
	"healthcare_booking/internal/pkg/config"
	"healthcare_booking/internal/pkg/mailer"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/internal/pkg/registry"
	"healthcare_booking/internal/pkg/reminder"
	"healthcare_booking/pkg/cache"
	"healthcare_booking/pkg/database"
	"healthcare_booking/pkg/logger"

	// 模块自注册
	_ "healthcare_booking/internal/domain/appointment"
	_ "healthcare_booking/internal/domain/catalog"
	_ "healthcare_booking/internal/domain/doctor"
	_ "healthcare_booking/internal/domain/order"
	_ "healthcare_booking/internal/domain/payment"
	_ "healthcare_booking/internal/domain/record"
	_ "healthcare_booking/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.App.Env)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}

	// 资源句柄
	db := database.InitPostgres(cfg.Database)
	redisClient := database.InitRedis(cfg.Redis)
	mongoDB := database.InitMongo(cfg.Mongo)
	cacheService := cache.NewRedisCache(redisClient, cfg.Redis.KeyPrefix)
	mail := mailer.NewMailer(cfg.SMTP)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		cors.Default(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.RateLimitMiddleware(rate.Limit(50), 100),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 初始化业务模块
	moduleCtx := &registry.ModuleContext{
		DB:     db,
		Mongo:  mongoDB,
		Redis:  redisClient,
		Cache:  cacheService,
		Mailer: mail,
		Router: router,
		Config: cfg,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("Failed to init modules", zap.Error(err))
	}

	// 预约提醒调度
	scheduler := reminder.NewScheduler(apmRepo.NewAppointmentRepository(db), mail)
	if err := scheduler.Start(); err != nil {
		logger.Log.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Log.Warn("Failed to close redis client", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
