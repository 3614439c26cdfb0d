package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/projlens/projlens-backend/config"
	"github.com/projlens/projlens-backend/internal/api/http/middleware"
	"github.com/projlens/projlens-backend/internal/bootstrap"
	"github.com/projlens/projlens-backend/internal/logging"
	"github.com/projlens/projlens-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(logging.Options{
		Level:       cfg.App.LogLevel,
		Environment: cfg.App.Environment,
		ErrorFile:   cfg.App.ErrorLog,
	})
	defer logger.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	db, err := postgres.NewConnection(context.Background(), &cfg.Database)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	var limiter middleware.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.Window, cfg.RateLimit.Limit)
	} else {
		limiter = middleware.NewLocalLimiter(cfg.RateLimit.Window, cfg.RateLimit.Limit)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "projlens-backend",
		Version:     cfg.App.Version,
		DB:          db,
		Logger:      logger,
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		CORSOrigins: cfg.Server.CORSOrigins,
		Limiter:     limiter,
	})

	logger.Info("listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
