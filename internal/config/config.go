// 包 config：服务配置，全部来自环境变量（由入口先行用 godotenv 加载 .env）
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 服务运行参数
type Config struct {
	Addr           string
	APIBase        string
	BatchMaxPoints int
	BatchWorkers   int

	RateLimitEnabled bool
	RateLimitQPS     int
	RedisRateLimit   bool

	StatsEnabled bool

	TLSEnable   bool
	TLSCertPath string
	TLSKeyPath  string
}

// LoadDotEnv 依次加载 .env 与 data/env/.env；文件缺失不报错，已存在的环境变量不被覆盖
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

// 文档注释：读取服务配置
// 约束：非法数值静默回退默认值；布尔只认 "true"（大小写不敏感）。
func FromEnv() Config {
	c := Config{
		Addr:             getStr("ADDR", ":8080"),
		APIBase:          strings.TrimRight(getStr("API_BASE", "/api"), "/"),
		BatchMaxPoints:   getInt("BATCH_MAX_POINTS", 10000),
		BatchWorkers:     getInt("BATCH_WORKERS", runtime.NumCPU()),
		RateLimitEnabled: getBool("RATE_LIMIT_ENABLED"),
		RateLimitQPS:     getInt("RATE_LIMIT_QPS", 200),
		RedisRateLimit:   getBool("REDIS_RATE_LIMIT"),
		StatsEnabled:     getBool("STATS_ENABLED"),
		TLSEnable:        getBool("TLS_ENABLE"),
		TLSCertPath:      getStr("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:       getStr("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
	}
	return c
}

func getStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getBool(key string) bool { return strings.EqualFold(os.Getenv(key), "true") }
