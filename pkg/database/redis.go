package database

import (
	"log"

	"roadmapper/configs"
	"roadmapper/internal/config"
	"roadmapper/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ConnectRedis membuat koneksi Redis untuk denylist token logout.
// Mengembalikan nil jika REDIS_ADDR tidak diisi (fitur logout server-side
// dimatikan, token hanya dibuang di sisi client).
func ConnectRedis(cfg configs.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.SystemLogger.Info("REDIS_ADDR not set, logout denylist disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: "",
		DB:       0,
	})
	if err := client.Ping(config.Ctx).Err(); err != nil {
		logger.ErrorLogger.Error("Redis connection error", zap.Error(err))
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	return client
}
