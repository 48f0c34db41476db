// 包 utils：PostgreSQL / Redis 连接与证书工具，统一从环境变量读取参数
package utils

import (
	"database/sql"
	"net/url"
	"os"
	"strconv"

	_ "github.com/lib/pq"
)

// 文档注释：由 PG_* 环境变量拼装 DSN
// 约束：密码等特殊字符经 url 编码；未配置时连接本机 coordapi 库。
func BuildPostgresDSNFromEnv() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   envOr("PG_HOST", "localhost") + ":" + envOr("PG_PORT", "5432"),
		Path:   "/" + envOr("PG_DB", "coordapi"),
	}
	user := envOr("PG_USER", "postgres")
	if pass := os.Getenv("PG_PASSWORD"); pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	q := url.Values{}
	q.Set("sslmode", envOr("PG_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

// OpenPostgresFromEnv 打开连接池；不做 Ping，由调用方决定失败策略
func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(envInt("PG_MAX_OPEN_CONNS", 10))
	db.SetMaxIdleConns(envInt("PG_MAX_IDLE_CONNS", 5))
	return db, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
