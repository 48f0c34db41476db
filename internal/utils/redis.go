package utils

import (
	"coord-api/internal/logger"
	"os"

	"github.com/redis/go-redis/v9"
)

// 文档注释：从环境变量打开 Redis 客户端
// 背景：仅用于多实例共享限流窗口；REDIS_DB 解析失败回退到 0。
// 约束：REDIS_HOST 未配置时返回 nil，调用方回退到进程内限流。
func OpenRedisFromEnv() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil
	}
	addr := host + ":" + envOr("REDIS_PORT", "6379")
	db := envInt("REDIS_DB", 0)
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
}
