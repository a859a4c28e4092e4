package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/mockapi"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/logger"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsService := metrics.NewService()
	server := mockapi.NewServer(cfg.Mock, mockapi.SeedFixtures(), metricsService.Handler(), zapLogger)

	zapLogger.Info("mock waterworks API listening",
		zap.Int("port", cfg.Mock.Port),
		zap.String("env", cfg.Env),
	)

	if err := server.Run(); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
